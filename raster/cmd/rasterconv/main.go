// Command rasterconv inspects raster streams and converts them between
// CUPS Raster versions, PWG Raster and URF.
//
// Usage:
//
//	rasterconv info [-v] [file]
//	rasterconv convert -to pwg|urf|cups1|cups2|cups3 [-le] [-o options] [-out file] [file]
//
// Streams are read from standard input if no file is given.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/term"

	"honnef.co/go/printraster/options"
	"honnef.co/go/printraster/raster"
)

func main() {
	logLevel := parseLogLevel(envStr("RASTER_LOG_LEVEL", "info"))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:], os.Stdout)
	case "convert":
		err = runConvert(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error(os.Args[1]+" failed", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: rasterconv <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  info    [-v] [file]")
	fmt.Fprintln(os.Stderr, "  convert -to pwg|urf|cups1|cups2|cups3 [-le] [-o options] [-out file] [file]")
}

func openInput(fs *flag.FlagSet) (io.ReadCloser, error) {
	if fs.NArg() == 0 {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(fs.Arg(0))
}

func newDecoder(r io.Reader) (*raster.Decoder, error) {
	return raster.NewDecoder(r, raster.WithLogger(slog.Default()))
}

func runInfo(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "dump complete page headers")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := openInput(fs)
	if err != nil {
		return err
	}
	defer in.Close()
	return info(in, w, *verbose)
}

func info(r io.Reader, w io.Writer, verbose bool) error {
	d, err := newDecoder(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "format: %s\n", d.Format())
	if d.Format().Version == raster.VersionURF {
		fmt.Fprintf(w, "announced pages: %d\n", d.PageCount())
	}
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
		fmt.Fprintf(w, "page %d: %dx%d pixels, %dx%d dpi, color space %d, order %d, %d bits per color, %d bits per pixel, %d bytes per line\n",
			p.Number(), l.Width, l.Height, l.HorizDPI, l.VertDPI,
			l.ColorSpace, l.ColorOrder, l.BitsPerColor, l.BitsPerPixel, l.BytesPerLine)
		if verbose {
			spew.Fdump(w, p.Header)
		}
	}
	fmt.Fprintf(w, "pages: %d\n", n)
	return nil
}

var targets = map[string]raster.Version{
	"pwg":   raster.VersionPWG,
	"urf":   raster.VersionURF,
	"cups1": raster.VersionCUPS1,
	"cups2": raster.VersionCUPS2,
	"cups3": raster.VersionCUPS3,
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	to := fs.String("to", "pwg", "target format: pwg, urf, cups1, cups2 or cups3")
	little := fs.Bool("le", false, "write CUPS Raster in little-endian byte order")
	opts := fs.String("o", "", `CUPS options applied to CUPS page headers, e.g. "resolution=300dpi page-ranges=1-2"`)
	out := fs.String("out", "", "output file (default standard output)")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := strings.ToLower(*to)
	v, ok := targets[name]
	if !ok {
		return fmt.Errorf("unknown target format %q", *to)
	}
	f := raster.Format{Version: v, ByteOrder: binary.BigEndian}
	if *little {
		if name == "urf" || name == "pwg" {
			return errors.New("-le is only valid for CUPS Raster")
		}
		f.ByteOrder = binary.LittleEndian
	}
	parsed, err := options.ParseOptions(*opts)
	if err != nil {
		return err
	}

	in, err := openInput(fs)
	if err != nil {
		return err
	}
	defer in.Close()

	var w io.Writer = os.Stdout
	if *out == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write binary output to a terminal, use -out")
		}
	} else {
		file, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	n, err := convert(in, w, f, parsed)
	if err != nil {
		return err
	}
	slog.Info("converted stream", "pages", n, "format", f)
	return nil
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
