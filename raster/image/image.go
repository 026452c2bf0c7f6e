// Package image converts decoded raster pages to images of the image
// package. Only the declared color space is interpreted; no color
// management takes place.
package image

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"honnef.co/go/printraster/raster"
)

type model int

const (
	modelUnknown model = iota
	// zero is black
	modelGray
	// zero is white
	modelBlack
	modelRGB
	modelCMYK
)

func colorModel(h raster.PageHeader) model {
	switch h := h.(type) {
	case *raster.CUPSHeader:
		switch h.CUPS.ColorSpace {
		case raster.ColorSpaceGray, raster.ColorSpacesGray:
			return modelGray
		case raster.ColorSpaceBlack:
			return modelBlack
		case raster.ColorSpaceRGB, raster.ColorSpacesRGB, raster.ColorSpaceAdobeRGB:
			return modelRGB
		case raster.ColorSpaceCMYK:
			return modelCMYK
		}
	case *raster.URFHeader:
		switch h.ColorSpace {
		case raster.URFColorSpacesGray, raster.URFColorSpaceGray:
			return modelGray
		case raster.URFColorSpacesRGB, raster.URFColorSpaceRGB, raster.URFColorSpaceAdobeRGB:
			return modelRGB
		case raster.URFColorSpaceCMYK:
			return modelCMYK
		}
	}
	return modelUnknown
}

// Supported reports whether the page's pixels can be converted to
// colors.
func Supported(p *raster.Page) bool {
	_, err := pageModel(p)
	return err == nil
}

func pageModel(p *raster.Page) (model, error) {
	l := p.Layout()
	// TODO support banded and planar
	if l.ColorOrder != raster.ChunkyPixels {
		return modelUnknown, raster.ErrUnsupported
	}
	if l.BitsPerPixel != l.BitsPerColor*l.NumColors {
		return modelUnknown, raster.ErrUnsupported
	}
	m := colorModel(p.Header)
	switch m {
	case modelGray, modelBlack:
		switch l.BitsPerColor {
		case 1, 8, 16:
			return m, nil
		}
	case modelRGB:
		switch l.BitsPerColor {
		case 8, 16:
			return m, nil
		}
	case modelCMYK:
		if l.BitsPerColor == 8 {
			return m, nil
		}
	}
	return modelUnknown, raster.ErrUnsupported
}

func rect(l raster.Layout) image.Rectangle {
	// TODO respect bounding box
	return image.Rect(0, 0, l.Width, l.Height)
}

// Image returns an image.Image of the page.
//
// Depending on the color space and bit depth used, image.Image
// implementations from this package or from the Go standard library
// image package may be used. The mapping is as follows:
//
//   - 1-bit gray or black -> *Monochrome
//   - 8-bit gray or black -> *image.Gray
//   - 16-bit gray or black -> *image.Gray16
//   - 8-bit RGB -> *image.RGBA
//   - 16-bit RGB -> *image.RGBA64
//   - 8-bit CMYK -> *image.CMYK
//   - Other combinations, and pages that aren't chunky, are not
//     currently supported and will return ErrUnsupported.
//
// No calls to ReadLine or ReadAll must be made before or after
// calling Image. That is, Image consumes the entire stream of the
// page.
//
// Note that decoding an entire page at once may use considerable
// amounts of memory. For efficient, line-wise processing, a
// combination of ReadLine and Colors should be used instead.
func Image(p *raster.Page) (image.Image, error) {
	m, err := pageModel(p)
	if err != nil {
		return nil, err
	}
	l := p.Layout()
	r := rect(l)
	switch {
	case l.BitsPerColor == 1:
		b := make([]byte, p.TotalSize())
		if err := p.ReadAll(b); err != nil {
			return nil, err
		}
		if m == modelGray {
			for i, v := range b {
				b[i] = ^v
			}
		}
		return &Monochrome{Pix: b, Stride: l.BytesPerLine, Rect: r}, nil
	case l.BitsPerColor == 8 && m != modelRGB:
		b := make([]byte, p.TotalSize())
		if err := p.ReadAll(b); err != nil {
			return nil, err
		}
		switch m {
		case modelBlack:
			for i, v := range b {
				b[i] = 255 - v
			}
			fallthrough
		case modelGray:
			return &image.Gray{Pix: b, Stride: l.BytesPerLine, Rect: r}, nil
		default:
			return &image.CMYK{Pix: b, Stride: l.BytesPerLine, Rect: r}, nil
		}
	}

	var img ImageSetter
	switch {
	case m == modelRGB && l.BitsPerColor == 8:
		img = image.NewRGBA(r)
	case m == modelRGB:
		img = image.NewRGBA64(r)
	default:
		img = image.NewGray16(r)
	}
	if err := Render(p, img); err != nil {
		return nil, err
	}
	return img.(image.Image), nil
}

// Colors returns the color of each pixel in the line b, which must
// have been read from p. It returns exactly as many colors as the page
// is wide, ignoring the padding of the last byte.
func Colors(p *raster.Page, b []byte) ([]color.Color, error) {
	m, err := pageModel(p)
	if err != nil {
		return nil, err
	}
	l := p.Layout()
	if len(b) < l.BytesPerLine {
		return nil, raster.ErrBufferTooSmall
	}
	bo := p.Format().ByteOrder
	colors := make([]color.Color, l.Width)
	for x := range colors {
		colors[x] = pixel(m, l, bo, b, x)
	}
	return colors, nil
}

func pixel(m model, l raster.Layout, bo binary.ByteOrder, b []byte, x int) color.Color {
	switch l.BitsPerColor {
	case 1:
		set := b[x/8]<<uint(x%8)&128 != 0
		if set == (m == modelBlack) {
			return color.Gray{Y: 0}
		}
		return color.Gray{Y: 255}
	case 8:
		o := x * l.NumColors
		switch m {
		case modelGray:
			return color.Gray{Y: b[o]}
		case modelBlack:
			return color.Gray{Y: 255 - b[o]}
		case modelRGB:
			return color.RGBA{R: b[o], G: b[o+1], B: b[o+2], A: 255}
		default:
			return color.CMYK{C: b[o], M: b[o+1], Y: b[o+2], K: b[o+3]}
		}
	default:
		o := x * l.NumColors * 2
		v := func(i int) uint16 { return bo.Uint16(b[o+2*i:]) }
		switch m {
		case modelGray:
			return color.Gray16{Y: v(0)}
		case modelBlack:
			return color.Gray16{Y: 0xFFFF - v(0)}
		default:
			return color.RGBA64{R: v(0), G: v(1), B: v(2), A: 0xFFFF}
		}
	}
}

type ImageSetter interface {
	Set(x, y int, c color.Color)
}

// Render renders the unread lines of a raster page onto any image
// that implements the Set method.
func Render(p *raster.Page, img ImageSetter) error {
	if _, err := pageModel(p); err != nil {
		return err
	}
	b := make([]byte, p.LineSize())
	for y := p.Layout().Lines() - p.UnreadLines(); p.UnreadLines() > 0; y++ {
		err := p.ReadLine(b)
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}
		colors, err := Colors(p, b)
		if err != nil {
			return err
		}
		for x, c := range colors {
			img.Set(x, y, c)
		}
	}
	return nil
}

var _ image.Image = (*Monochrome)(nil)

// Monochrome is an in-memory monochromatic image, with 8 pixels
// packed into one byte. Set bits are black. Its At method returns
// color.Gray values.
type Monochrome struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func (img *Monochrome) ColorModel() color.Model {
	return color.GrayModel
}

func (img *Monochrome) Bounds() image.Rectangle {
	return img.Rect
}

func (img *Monochrome) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return color.Gray{}
	}
	idx := img.PixOffset(x, y)
	if img.Pix[idx]<<uint((x-img.Rect.Min.X)%8)&128 == 0 {
		return color.Gray{Y: 255}
	}
	return color.Gray{Y: 0}
}

// PixOffset returns the index of the first element of Pix that
// corresponds to the pixel at (x, y).
func (img *Monochrome) PixOffset(x, y int) int {
	return (y-img.Rect.Min.Y)*img.Stride + (x-img.Rect.Min.X)/8
}
