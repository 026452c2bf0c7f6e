package raster

import "math"

// A PageHeader is the header of one page. It is implemented by
// *CUPSHeader and *URFHeader.
type PageHeader interface {
	// Layout returns the pixel layout described by the header.
	Layout() Layout

	validate(v Version) error
}

// Layout describes how a page's pixels are packed into lines. It is the
// part of a page header that is common to all versions.
type Layout struct {
	Width    int
	Height   int
	HorizDPI int
	VertDPI  int
	// ColorSpace is the header's color space identifier. CUPS and URF
	// number their color spaces differently.
	ColorSpace   int
	ColorOrder   int
	BitsPerColor int
	BitsPerPixel int
	BytesPerLine int
	NumColors    int
	// White is the byte value that fills the remainder of a line when
	// compressed data asks for it.
	White byte
}

// GroupSize returns the number of bytes in one pixel group, the unit
// that runs of compressed data repeat or copy.
func (l Layout) GroupSize() int {
	if l.ColorOrder == ChunkyPixels {
		return (l.BitsPerPixel + 7) / 8
	}
	return (l.BitsPerColor + 7) / 8
}

// Lines returns the number of lines in the page. Planar pages store
// each color plane as its own set of Height lines.
func (l Layout) Lines() int {
	if l.ColorOrder == PlanarPixels {
		return l.Height * l.NumColors
	}
	return l.Height
}

// Size returns the number of bytes of pixel data in the page.
func (l Layout) Size() int64 {
	return int64(l.Lines()) * int64(l.BytesPerLine)
}

// lineBytes derives the length of a line from the page's width and
// pixel packing.
func (l Layout) lineBytes() int64 {
	w := int64(l.Width)
	switch l.ColorOrder {
	case ChunkyPixels:
		return (w*int64(l.BitsPerPixel) + 7) / 8
	case BandedPixels:
		return (w*int64(l.BitsPerColor) + 7) / 8 * int64(l.NumColors)
	default:
		return (w*int64(l.BitsPerColor) + 7) / 8
	}
}

func validBitsPerColor(n int) bool {
	switch n {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}

// check verifies that the layout's fields agree with each other.
func (l Layout) check() error {
	if l.Width <= 0 || int64(l.Width) > math.MaxUint32 {
		return invalid("Width", l.Width)
	}
	if l.Height <= 0 || int64(l.Height) > math.MaxUint32 {
		return invalid("Height", l.Height)
	}
	if l.NumColors < 1 || l.NumColors > 15 {
		return invalid("NumColors", l.NumColors)
	}
	if !validBitsPerColor(l.BitsPerColor) {
		return invalid("BitsPerColor", l.BitsPerColor)
	}
	switch l.ColorOrder {
	case ChunkyPixels:
		bpp := l.BitsPerPixel
		if bpp < l.BitsPerColor || bpp%l.BitsPerColor != 0 || bpp > 240 {
			return invalid("BitsPerPixel", bpp)
		}
		if bpp < 8 && !validBitsPerColor(bpp) || bpp > 8 && bpp%8 != 0 {
			return invalid("BitsPerPixel", bpp)
		}
	case BandedPixels, PlanarPixels:
		if l.BitsPerPixel != l.BitsPerColor {
			return invalid("BitsPerPixel", l.BitsPerPixel)
		}
	default:
		return invalid("ColorOrder", l.ColorOrder)
	}
	if n := l.lineBytes(); n != int64(l.BytesPerLine) {
		return invalid("BytesPerLine", l.BytesPerLine)
	}
	if l.BytesPerLine%l.GroupSize() != 0 {
		return invalid("BytesPerLine", l.BytesPerLine)
	}
	return nil
}

func cupsColorSpaceValid(cs int) bool {
	return cs >= ColorSpaceGray && cs <= ColorSpaceAdobeRGB ||
		cs >= ColorSpaceICC1 && cs <= ColorSpaceICCF ||
		cs >= ColorSpaceDevice1 && cs <= ColorSpaceDeviceF
}

// cupsNumColors returns the number of colors implied by a CUPS color
// space.
func cupsNumColors(cs, bitsPerPixel int) int {
	switch cs {
	case ColorSpaceGray, ColorSpaceWHITE, ColorSpaceBlack, ColorSpaceGOLD,
		ColorSpaceSILVER, ColorSpacesGray:
		return 1
	case ColorSpaceRGB, ColorSpaceCMY, ColorSpaceYMC, ColorSpaceCIEXYZ,
		ColorSpaceCIELab, ColorSpacesRGB, ColorSpaceAdobeRGB:
		return 3
	case ColorSpaceRGBA, ColorSpaceRGBW, ColorSpaceCMYK, ColorSpaceYMCK,
		ColorSpaceKCMY, ColorSpaceGMCK, ColorSpaceGMCS:
		return 4
	case ColorSpaceKCMYcm:
		if bitsPerPixel < 8 {
			return 6
		}
		return 4
	}
	switch {
	case cs >= ColorSpaceICC1 && cs <= ColorSpaceICCF:
		return 3
	case cs >= ColorSpaceDevice1 && cs <= ColorSpaceDeviceF:
		return cs - ColorSpaceDevice1 + 1
	}
	return 0
}

// additive reports whether zero means no light in the color space, in
// which case white is all ones.
func cupsAdditive(cs int) bool {
	switch cs {
	case ColorSpaceGray, ColorSpaceRGB, ColorSpaceRGBA, ColorSpaceRGBW,
		ColorSpacesGray, ColorSpacesRGB, ColorSpaceCIELab, ColorSpaceAdobeRGB:
		return true
	}
	return false
}

func white(additive bool) byte {
	if additive {
		return 0xFF
	}
	return 0
}

// NumColors returns the number of color components of the page.
func (h *CUPSHeader) NumColors() int {
	if h.CUPS.NumColors != 0 {
		return h.CUPS.NumColors
	}
	return cupsNumColors(h.CUPS.ColorSpace, h.CUPS.BitsPerPixel)
}

func (h *CUPSHeader) Layout() Layout {
	return Layout{
		Width:        h.CUPS.Width,
		Height:       h.CUPS.Height,
		HorizDPI:     h.HorizDPI,
		VertDPI:      h.VertDPI,
		ColorSpace:   h.CUPS.ColorSpace,
		ColorOrder:   h.CUPS.ColorOrder,
		BitsPerColor: h.CUPS.BitsPerColor,
		BitsPerPixel: h.CUPS.BitsPerPixel,
		BytesPerLine: h.CUPS.BytesPerLine,
		NumColors:    h.NumColors(),
		White:        white(cupsAdditive(h.CUPS.ColorSpace)),
	}
}

func (h *CUPSHeader) validate(v Version) error {
	switch v {
	case VersionCUPS1, VersionCUPS2, VersionCUPS3:
	default:
		return ErrUnsupported
	}
	if h.AdvanceMedia < AdvanceNever || h.AdvanceMedia > AdvanceAfterPage {
		return invalid("AdvanceMedia", h.AdvanceMedia)
	}
	if h.CutMedia < CutNever || h.CutMedia > CutAfterPage {
		return invalid("CutMedia", h.CutMedia)
	}
	if h.Jog < JogNever || h.Jog > JogAfterSet {
		return invalid("Jog", h.Jog)
	}
	if h.LeadingEdge < EdgeTop || h.LeadingEdge > EdgeLeft {
		return invalid("LeadingEdge", h.LeadingEdge)
	}
	if h.Orientation < RotateNone || h.Orientation > RotateClockwise {
		return invalid("Orientation", h.Orientation)
	}
	if !cupsColorSpaceValid(h.CUPS.ColorSpace) {
		return invalid("ColorSpace", h.CUPS.ColorSpace)
	}
	if v == VersionCUPS1 && h.CUPS.NumColors != 0 {
		// version 1 has no field to store it in
		if h.CUPS.NumColors != cupsNumColors(h.CUPS.ColorSpace, h.CUPS.BitsPerPixel) {
			return invalid("NumColors", h.CUPS.NumColors)
		}
	}
	return h.Layout().check()
}

var urfNumColors = [...]int{
	URFColorSpacesGray:    1,
	URFColorSpacesRGB:     3,
	URFColorSpaceCIELab:   3,
	URFColorSpaceAdobeRGB: 3,
	URFColorSpaceGray:     1,
	URFColorSpaceRGB:      3,
	URFColorSpaceCMYK:     4,
}

func (h *URFHeader) numColors() int {
	if h.ColorSpace < 0 || h.ColorSpace >= len(urfNumColors) {
		return 0
	}
	return urfNumColors[h.ColorSpace]
}

// Layout returns the header's layout. URF pages are always chunky, and
// their lines are never padded.
func (h *URFHeader) Layout() Layout {
	n := h.numColors()
	bpc := 0
	if n > 0 {
		bpc = h.BitsPerPixel / n
	}
	return Layout{
		Width:        h.Width,
		Height:       h.Height,
		HorizDPI:     h.DPI,
		VertDPI:      h.DPI,
		ColorSpace:   h.ColorSpace,
		ColorOrder:   ChunkyPixels,
		BitsPerColor: bpc,
		BitsPerPixel: h.BitsPerPixel,
		BytesPerLine: h.Width * (h.BitsPerPixel / 8),
		NumColors:    n,
		White:        white(h.ColorSpace != URFColorSpaceCMYK),
	}
}

func (h *URFHeader) validate(v Version) error {
	if v != VersionURF {
		return ErrUnsupported
	}
	n := h.numColors()
	if n == 0 {
		return invalid("ColorSpace", h.ColorSpace)
	}
	if h.BitsPerPixel != 8*n && h.BitsPerPixel != 16*n {
		return invalid("BitsPerPixel", h.BitsPerPixel)
	}
	if h.Duplex < URFDuplexNone || h.Duplex > URFDuplexLongSide {
		return invalid("Duplex", h.Duplex)
	}
	switch h.Quality {
	case URFQualityDefault, URFQualityDraft, URFQualityNormal, URFQualityHigh:
	default:
		return invalid("Quality", h.Quality)
	}
	if h.MediaType < URFMediaTypeAuto || h.MediaType > URFMediaTypeOther {
		return invalid("MediaType", h.MediaType)
	}
	if h.MediaPosition < URFMediaPositionAuto || h.MediaPosition > URFMediaPositionRoll10 {
		return invalid("MediaPosition", h.MediaPosition)
	}
	if h.DPI <= 0 || int64(h.DPI) > math.MaxUint32 {
		return invalid("DPI", h.DPI)
	}
	return h.Layout().check()
}
