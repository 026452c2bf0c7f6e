// Command render converts pages of a raster stream to PNG, TIFF, BMP
// or PDF.
//
// Usage:
//
//	render [-page n] [-format png|tiff|bmp|pdf] [-width px] [-o out] [file]
//
// PDF output contains every page of the stream, other formats a single
// page. The stream is read from standard input if no file is given.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/term"

	"honnef.co/go/printraster/raster"
	rimage "honnef.co/go/printraster/raster/image"
)

func main() {
	logLevel := parseLogLevel(envStr("RASTER_LOG_LEVEL", "info"))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	page := flag.Int("page", 0, "zero-based index of the page to render")
	format := flag.String("format", "", "output format: png, tiff, bmp or pdf (default from -o, else png)")
	width := flag.Uint("width", 0, "scale pages to this width in pixels, keeping the aspect ratio")
	out := flag.String("o", "", "output file (default standard output)")
	flag.Parse()

	if *format == "" {
		switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(*out)), "."); ext {
		case "":
			*format = "png"
		case "tif":
			*format = "tiff"
		default:
			*format = ext
		}
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			slog.Error("failed to open input", "path", flag.Arg(0), "err", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var w io.Writer = os.Stdout
	if *out == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			slog.Error("refusing to write binary output to a terminal, use -o")
			os.Exit(2)
		}
	} else {
		f, err := os.Create(*out)
		if err != nil {
			slog.Error("failed to create output", "path", *out, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := run(in, w, *format, *page, *width); err != nil {
		slog.Error("render failed", "err", err)
		os.Exit(1)
	}
}

func run(in io.Reader, w io.Writer, format string, page int, width uint) error {
	d, err := raster.NewDecoder(in, raster.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	slog.Debug("decoding", "format", d.Format())

	if format == "pdf" {
		return writePDF(d, w, width)
	}

	for i := 0; ; i++ {
		p, err := d.NextPage()
		if err == io.EOF {
			return fmt.Errorf("stream has only %d pages", i)
		}
		if err != nil {
			return err
		}
		if i < page {
			continue
		}
		img, err := pageImage(p, width)
		if err != nil {
			return err
		}
		switch format {
		case "png":
			return png.Encode(w, img)
		case "tiff":
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		case "bmp":
			return bmp.Encode(w, img)
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
	}
}

func pageImage(p *raster.Page, width uint) (image.Image, error) {
	img, err := rimage.Image(p)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", p.Number(), err)
	}
	if width > 0 && int(width) != img.Bounds().Dx() {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}
	return img, nil
}

// writePDF writes all pages as PNG images, each on a PDF page of its
// physical size.
func writePDF(d *raster.Decoder, w io.Writer, width uint) error {
	pdf := fpdf.New("P", "mm", "", "")
	pdf.SetAutoPageBreak(false, 0)

	n := 0
	for ; ; n++ {
		p, err := d.NextPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		l := p.Layout()
		img, err := pageImage(p, width)
		if err != nil {
			return err
		}
		widthMM := float64(l.Width) / float64(dpi(l.HorizDPI)) * 25.4
		heightMM := float64(l.Height) / float64(dpi(l.VertDPI)) * 25.4
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: widthMM, Ht: heightMM})

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode page %d PNG: %w", n, err)
		}
		name := fmt.Sprintf("page%d", n)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
		pdf.ImageOptions(name, 0, 0, widthMM, heightMM, false, fpdf.ImageOptions{}, 0, "")
	}
	if n == 0 {
		return errors.New("stream has no pages")
	}
	slog.Info("wrote PDF", "pages", n)
	return pdf.Output(w)
}

// dpi returns the resolution to lay out pages with. CUPS headers
// don't have to carry one.
func dpi(v int) int {
	if v <= 0 {
		return 72
	}
	return v
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
