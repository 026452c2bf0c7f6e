package main

import (
	"fmt"
	"io"
	"log/slog"

	"honnef.co/go/printraster/options"
	"honnef.co/go/printraster/raster"
)

// convert copies the pages of the stream in r that opts select to w,
// in format f. It returns the number of pages written.
func convert(r io.Reader, w io.Writer, f raster.Format, opts []options.Option) (int, error) {
	d, err := newDecoder(r)
	if err != nil {
		return 0, err
	}
	var encOpts []raster.Option
	if hasPageRanges(opts) {
		// the number of selected pages isn't known up front
		encOpts = append(encOpts, raster.WithPageCount(0))
	} else {
		encOpts = append(encOpts, raster.WithPageCount(d.PageCount()))
	}
	encOpts = append(encOpts, raster.WithLogger(slog.Default()))
	e, err := raster.NewEncoder(w, f, encOpts...)
	if err != nil {
		return 0, err
	}

	var line []byte
	written := 0
	for {
		p, err := d.NextPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, err
		}
		ok, err := options.PageSelected(opts, p.Number()+1)
		if err != nil {
			return written, err
		}
		if !ok {
			continue
		}
		h, err := mapHeader(p.Header, f.Version)
		if err != nil {
			return written, fmt.Errorf("page %d: %w", p.Number(), err)
		}
		if ch, ok := h.(*raster.CUPSHeader); ok {
			if err := options.ApplyToHeader(ch, opts); err != nil {
				return written, err
			}
		}
		if err := e.WriteHeader(h); err != nil {
			return written, err
		}
		if cap(line) < p.LineSize() {
			line = make([]byte, p.LineSize())
		}
		line = line[:p.LineSize()]
		// 16-bit samples are stored in the stream's byte order
		swap := p.Layout().BitsPerColor == 16 && d.Format().ByteOrder != f.ByteOrder
		for p.UnreadLines() > 0 {
			if err := p.ReadLine(line); err != nil {
				return written, err
			}
			if swap {
				swap16(line)
			}
			if err := e.WriteLine(line); err != nil {
				return written, err
			}
		}
		written++
	}
	return written, e.Close()
}

func swap16(b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		b[i], b[i+1] = b[i+1], b[i]
	}
}

func hasPageRanges(opts []options.Option) bool {
	for _, o := range opts {
		if o.Name == "page-ranges" {
			return true
		}
	}
	return false
}

var cupsToURFColorSpace = map[int]int{
	raster.ColorSpaceGray:     raster.URFColorSpaceGray,
	raster.ColorSpacesGray:    raster.URFColorSpacesGray,
	raster.ColorSpaceRGB:      raster.URFColorSpaceRGB,
	raster.ColorSpacesRGB:     raster.URFColorSpacesRGB,
	raster.ColorSpaceAdobeRGB: raster.URFColorSpaceAdobeRGB,
	raster.ColorSpaceCIELab:   raster.URFColorSpaceCIELab,
	raster.ColorSpaceCMYK:     raster.URFColorSpaceCMYK,
}

var urfToCUPSColorSpace = map[int]int{
	raster.URFColorSpaceGray:     raster.ColorSpaceGray,
	raster.URFColorSpacesGray:    raster.ColorSpacesGray,
	raster.URFColorSpaceRGB:      raster.ColorSpaceRGB,
	raster.URFColorSpacesRGB:     raster.ColorSpacesRGB,
	raster.URFColorSpaceAdobeRGB: raster.ColorSpaceAdobeRGB,
	raster.URFColorSpaceCIELab:   raster.ColorSpaceCIELab,
	raster.URFColorSpaceCMYK:     raster.ColorSpaceCMYK,
}

// mapHeader returns a header for version v that describes the same
// pixel data as h. Fields that have no counterpart are dropped.
func mapHeader(h raster.PageHeader, v raster.Version) (raster.PageHeader, error) {
	switch h := h.(type) {
	case *raster.CUPSHeader:
		if v == raster.VersionURF {
			return cupsToURF(h)
		}
		out := *h
		if v == raster.VersionCUPS1 {
			// version 1 has no room for these
			out.CUPS.NumColors = 0
		} else if out.CUPS.NumColors == 0 {
			out.CUPS.NumColors = h.NumColors()
		}
		return &out, nil
	case *raster.URFHeader:
		if v == raster.VersionURF {
			out := *h
			return &out, nil
		}
		return urfToCUPS(h, v)
	default:
		return nil, raster.ErrUnsupported
	}
}

func cupsToURF(h *raster.CUPSHeader) (*raster.URFHeader, error) {
	l := h.Layout()
	if l.ColorOrder != raster.ChunkyPixels {
		return nil, fmt.Errorf("%w: URF pages must be chunky", raster.ErrUnsupported)
	}
	if l.HorizDPI != l.VertDPI {
		return nil, fmt.Errorf("%w: URF pages need equal horizontal and vertical resolution", raster.ErrUnsupported)
	}
	cs, ok := cupsToURFColorSpace[l.ColorSpace]
	if !ok {
		return nil, fmt.Errorf("%w: color space %d has no URF equivalent", raster.ErrUnsupported, l.ColorSpace)
	}
	duplex := raster.URFDuplexNone
	switch {
	case h.Duplex && h.Tumble:
		duplex = raster.URFDuplexShortSide
	case h.Duplex:
		duplex = raster.URFDuplexLongSide
	}
	return &raster.URFHeader{
		BitsPerPixel:  l.BitsPerPixel,
		ColorSpace:    cs,
		Duplex:        duplex,
		Quality:       raster.URFQualityDefault,
		MediaType:     raster.URFMediaTypeAuto,
		MediaPosition: raster.URFMediaPositionAuto,
		Width:         l.Width,
		Height:        l.Height,
		DPI:           l.HorizDPI,
	}, nil
}

func urfToCUPS(h *raster.URFHeader, v raster.Version) (*raster.CUPSHeader, error) {
	l := h.Layout()
	cs, ok := urfToCUPSColorSpace[h.ColorSpace]
	if !ok {
		return nil, fmt.Errorf("%w: URF color space %d", raster.ErrUnsupported, h.ColorSpace)
	}
	out := &raster.CUPSHeader{
		HorizDPI:  l.HorizDPI,
		VertDPI:   l.VertDPI,
		NumCopies: 1,
		Duplex:    h.Duplex != raster.URFDuplexNone,
		Tumble:    h.Duplex == raster.URFDuplexShortSide,
		Width:     l.Width * 72 / l.HorizDPI,
		Length:    l.Height * 72 / l.VertDPI,
	}
	out.BoundingBox.Right = out.Width
	out.BoundingBox.Top = out.Length
	out.CUPS.Width = l.Width
	out.CUPS.Height = l.Height
	out.CUPS.BitsPerColor = l.BitsPerColor
	out.CUPS.BitsPerPixel = l.BitsPerPixel
	out.CUPS.BytesPerLine = l.BytesPerLine
	out.CUPS.ColorOrder = raster.ChunkyPixels
	out.CUPS.ColorSpace = cs
	if v != raster.VersionCUPS1 {
		out.CUPS.NumColors = l.NumColors
		out.CUPS.PageSize = [2]float32{
			float32(l.Width) * 72 / float32(l.HorizDPI),
			float32(l.Height) * 72 / float32(l.VertDPI),
		}
		out.CUPS.ImagingBBox.Right = out.CUPS.PageSize[0]
		out.CUPS.ImagingBBox.Top = out.CUPS.PageSize[1]
	}
	return out, nil
}
