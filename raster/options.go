package raster

import (
	"io"
	"log/slog"
)

// Limits bounds the size of pages a Decoder accepts or an Encoder
// writes. A zero field means no limit. Decoders and encoders use
// DefaultLimits unless configured otherwise.
type Limits struct {
	// BytesPerLine is the largest accepted line length.
	BytesPerLine int
	// BytesPerPage is the largest accepted amount of pixel data in a
	// single page.
	BytesPerPage int64
}

// DefaultLimits accepts lines of up to 1 MiB and pages of up to
// 1 GiB. That is plenty for A4 pages at 1200 dpi in 8 bit CMYK.
var DefaultLimits = Limits{
	BytesPerLine: 1 << 20,
	BytesPerPage: 1 << 30,
}

func (l Limits) check(layout Layout) error {
	if l.BytesPerLine > 0 && layout.BytesPerLine > l.BytesPerLine {
		return ErrLimitExceeded
	}
	if l.BytesPerPage > 0 && layout.Size() > l.BytesPerPage {
		return ErrLimitExceeded
	}
	return nil
}

type config struct {
	log       *slog.Logger
	limits    Limits
	pageCount int
}

func newConfig(opts []Option) config {
	cfg := config{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		limits: DefaultLimits,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// An Option configures a Decoder or Encoder.
type Option func(*config)

// WithLogger sets the logger that page boundaries are logged to at
// debug level. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLimits sets the size limits of pages. WithLimits(Limits{})
// removes all limits.
func WithLimits(l Limits) Option {
	return func(c *config) { c.limits = l }
}

// WithPageCount sets the page count an Encoder writes into the stream
// header of URF streams. Zero, the default, means unknown. Decoders
// ignore it.
func WithPageCount(n int) Option {
	return func(c *config) { c.pageCount = n }
}
