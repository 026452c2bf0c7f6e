package options

import (
	"fmt"

	"honnef.co/go/printraster/raster"
)

type applyFunc func(h *raster.CUPSHeader, o Option) error

func invalidValue(o Option) error {
	return fmt.Errorf("options: invalid value %q for %s", o.Value(), o.RealName())
}

func boolField(f func(h *raster.CUPSHeader) *bool) applyFunc {
	return func(h *raster.CUPSHeader, o Option) error {
		if len(o.Values) > 0 {
			if _, ok := ParseBool(o.Value()); !ok || len(o.Values) > 1 {
				return invalidValue(o)
			}
		}
		*f(h) = o.Bool()
		return nil
	}
}

func numberField(f func(h *raster.CUPSHeader) *int) applyFunc {
	return func(h *raster.CUPSHeader, o Option) error {
		n, ok := ParseNumber(o.Value())
		if !ok || n < 0 {
			return invalidValue(o)
		}
		*f(h) = n
		return nil
	}
}

func stringField(f func(h *raster.CUPSHeader) *string) applyFunc {
	return func(h *raster.CUPSHeader, o Option) error {
		*f(h) = o.Value()
		return nil
	}
}

func applyResolution(h *raster.CUPSHeader, o Option) error {
	res, ok := ParseResolution(o.Value())
	if !ok || res.X <= 0 || res.Y <= 0 {
		return invalidValue(o)
	}
	h.HorizDPI = res.X
	h.VertDPI = res.Y
	return nil
}

func applySides(h *raster.CUPSHeader, o Option) error {
	switch o.Value() {
	case "one-sided":
		h.Duplex, h.Tumble = false, false
	case "two-sided-long-edge":
		h.Duplex, h.Tumble = true, false
	case "two-sided-short-edge":
		h.Duplex, h.Tumble = true, true
	default:
		return invalidValue(o)
	}
	return nil
}

func applyOrientation(h *raster.CUPSHeader, o Option) error {
	switch o.Value() {
	case "3", "portrait":
		h.Orientation = raster.RotateNone
	case "4", "landscape":
		h.Orientation = raster.RotateCounterClockwise
	case "5", "reverse-landscape":
		h.Orientation = raster.RotateClockwise
	case "6", "reverse-portrait":
		h.Orientation = raster.RotateUpsideDown
	default:
		return invalidValue(o)
	}
	return nil
}

// headerOptions maps option names, both in their IPP and their PPD
// spelling, to the header fields they set.
var headerOptions = map[string]applyFunc{
	"resolution":             applyResolution,
	"Resolution":             applyResolution,
	"sides":                  applySides,
	"orientation-requested":  applyOrientation,
	"copies":                 numberField(func(h *raster.CUPSHeader) *int { return &h.NumCopies }),
	"NumCopies":              numberField(func(h *raster.CUPSHeader) *int { return &h.NumCopies }),
	"MediaPosition":          numberField(func(h *raster.CUPSHeader) *int { return &h.MediaPosition }),
	"MediaWeight":            numberField(func(h *raster.CUPSHeader) *int { return &h.MediaWeight }),
	"Duplex":                 boolField(func(h *raster.CUPSHeader) *bool { return &h.Duplex }),
	"Tumble":                 boolField(func(h *raster.CUPSHeader) *bool { return &h.Tumble }),
	"Collate":                boolField(func(h *raster.CUPSHeader) *bool { return &h.Collate }),
	"collate":                boolField(func(h *raster.CUPSHeader) *bool { return &h.Collate }),
	"ManualFeed":             boolField(func(h *raster.CUPSHeader) *bool { return &h.ManualFeed }),
	"MirrorPrint":            boolField(func(h *raster.CUPSHeader) *bool { return &h.MirrorPrint }),
	"mirror":                 boolField(func(h *raster.CUPSHeader) *bool { return &h.MirrorPrint }),
	"NegativePrint":          boolField(func(h *raster.CUPSHeader) *bool { return &h.NegativePrint }),
	"OutputFaceUp":           boolField(func(h *raster.CUPSHeader) *bool { return &h.OutputFaceUp }),
	"InsertSheet":            boolField(func(h *raster.CUPSHeader) *bool { return &h.InsertSheet }),
	"Separations":            boolField(func(h *raster.CUPSHeader) *bool { return &h.Separations }),
	"TraySwitch":             boolField(func(h *raster.CUPSHeader) *bool { return &h.TraySwitch }),
	"MediaClass":             stringField(func(h *raster.CUPSHeader) *string { return &h.MediaClass }),
	"MediaColor":             stringField(func(h *raster.CUPSHeader) *string { return &h.MediaColor }),
	"media-color":            stringField(func(h *raster.CUPSHeader) *string { return &h.MediaColor }),
	"MediaType":              stringField(func(h *raster.CUPSHeader) *string { return &h.MediaType }),
	"media-type":             stringField(func(h *raster.CUPSHeader) *string { return &h.MediaType }),
	"OutputType":             stringField(func(h *raster.CUPSHeader) *string { return &h.OutputType }),
	"media":                  stringField(func(h *raster.CUPSHeader) *string { return &h.CUPS.PageSizeName }),
	"PageSize":               stringField(func(h *raster.CUPSHeader) *string { return &h.CUPS.PageSizeName }),
	"print-rendering-intent": stringField(func(h *raster.CUPSHeader) *string { return &h.CUPS.RenderingIntent }),
	"cupsRenderingIntent":    stringField(func(h *raster.CUPSHeader) *string { return &h.CUPS.RenderingIntent }),
	"cupsMarkerType":         stringField(func(h *raster.CUPSHeader) *string { return &h.CUPS.MarkerType }),
}

// ApplyToHeader sets the fields of h that opts describe, such as
// "resolution=300dpi", "sides=two-sided-long-edge" or "noCollate".
// Options that don't describe header fields are ignored. Pixel
// dimensions and color layout are never changed.
func ApplyToHeader(h *raster.CUPSHeader, opts []Option) error {
	for _, o := range opts {
		apply, ok := headerOptions[o.RealName()]
		if !ok {
			continue
		}
		if err := apply(h, o); err != nil {
			return err
		}
	}
	return nil
}

// PageSelected reports whether the one-based page number n is selected
// by the "page-ranges" option among opts. All pages are selected if
// the option is absent.
func PageSelected(opts []Option, n int) (bool, error) {
	for _, o := range opts {
		if o.Name != "page-ranges" {
			continue
		}
		for _, v := range o.Values {
			r, ok := ParseRange(v)
			if !ok {
				p, ok := ParseNumber(v)
				if !ok || p < 1 {
					return false, invalidValue(Option{Name: o.Name, Values: []string{v}})
				}
				r = Range{p, p}
			}
			if n >= r.Start && n <= r.End {
				return true, nil
			}
		}
		return false, nil
	}
	return true, nil
}
