package raster

const (
	AdvanceNever     = 0
	AdvanceAfterFile = 1
	AdvanceAfterJob  = 2
	AdvanceAfterSet  = 3
	AdvanceAfterPage = 4
)

const (
	CutNever     = 0
	CutAfterFile = 1
	CutAfterJob  = 2
	CutAfterSet  = 3
	CutAfterPage = 4
)

const (
	JogNever     = 0
	JogAfterFile = 1
	JogAfterJob  = 2
	JogAfterSet  = 3
)

const (
	EdgeTop    = 0
	EdgeRight  = 1
	EdgeBottom = 2
	EdgeLeft   = 3
)

const (
	RotateNone             = 0
	RotateCounterClockwise = 1
	RotateUpsideDown       = 2
	RotateClockwise        = 3
)

const (
	ChunkyPixels = 0
	BandedPixels = 1
	PlanarPixels = 2
)

const (
	ColorSpaceGray     = 0
	ColorSpaceRGB      = 1
	ColorSpaceRGBA     = 2
	ColorSpaceBlack    = 3
	ColorSpaceCMY      = 4
	ColorSpaceYMC      = 5
	ColorSpaceCMYK     = 6
	ColorSpaceYMCK     = 7
	ColorSpaceKCMY     = 8
	ColorSpaceKCMYcm   = 9
	ColorSpaceGMCK     = 10
	ColorSpaceGMCS     = 11
	ColorSpaceWHITE    = 12
	ColorSpaceGOLD     = 13
	ColorSpaceSILVER   = 14
	ColorSpaceCIEXYZ   = 15
	ColorSpaceCIELab   = 16
	ColorSpaceRGBW     = 17
	ColorSpacesGray    = 18
	ColorSpacesRGB     = 19
	ColorSpaceAdobeRGB = 20
	ColorSpaceICC1     = 32
	ColorSpaceICC2     = 33
	ColorSpaceICC3     = 34
	ColorSpaceICC4     = 35
	ColorSpaceICC5     = 36
	ColorSpaceICC6     = 37
	ColorSpaceICC7     = 38
	ColorSpaceICC8     = 39
	ColorSpaceICC9     = 40
	ColorSpaceICCA     = 41
	ColorSpaceICCB     = 42
	ColorSpaceICCC     = 43
	ColorSpaceICCD     = 44
	ColorSpaceICCE     = 45
	ColorSpaceICCF     = 46
	ColorSpaceDevice1  = 48
	ColorSpaceDevice2  = 49
	ColorSpaceDevice3  = 50
	ColorSpaceDevice4  = 51
	ColorSpaceDevice5  = 52
	ColorSpaceDevice6  = 53
	ColorSpaceDevice7  = 54
	ColorSpaceDevice8  = 55
	ColorSpaceDevice9  = 56
	ColorSpaceDeviceA  = 57
	ColorSpaceDeviceB  = 58
	ColorSpaceDeviceC  = 59
	ColorSpaceDeviceD  = 60
	ColorSpaceDeviceE  = 61
	ColorSpaceDeviceF  = 62
)

// URF color spaces. They are numbered independently of the CUPS color
// spaces.
const (
	URFColorSpacesGray    = 0
	URFColorSpacesRGB     = 1
	URFColorSpaceCIELab   = 2
	URFColorSpaceAdobeRGB = 3
	URFColorSpaceGray     = 4
	URFColorSpaceRGB      = 5
	URFColorSpaceCMYK     = 6
)

const (
	URFDuplexNone      = 1
	URFDuplexShortSide = 2
	URFDuplexLongSide  = 3
)

const (
	URFQualityDefault = 0
	URFQualityDraft   = 3
	URFQualityNormal  = 4
	URFQualityHigh    = 5
)

// URF media types, from "auto" to "other".
const (
	URFMediaTypeAuto  = 0
	URFMediaTypeOther = 13
)

// URF media positions, from "auto" to "roll-10".
const (
	URFMediaPositionAuto   = 0
	URFMediaPositionRoll10 = 49
)

type BoundingBox struct {
	Left   int
	Bottom int
	Right  int
	Top    int
}

type CUPSBoundingBox struct {
	Left   float32
	Bottom float32
	Right  float32
	Top    float32
}

// CUPSHeader is the page header of CUPS Raster streams. Version 1
// streams only carry the fields up to and including CUPS.RowStep; the
// remaining fields are zero when decoded from such a stream and are not
// written to it.
type CUPSHeader struct {
	MediaClass      string
	MediaColor      string
	MediaType       string
	OutputType      string
	AdvanceDistance int
	AdvanceMedia    int
	Collate         bool
	CutMedia        int
	Duplex          bool
	HorizDPI        int
	VertDPI         int
	// BoundingBox is the page bounding box in points.
	BoundingBox   BoundingBox
	InsertSheet   bool
	Jog           int
	LeadingEdge   int
	MarginLeft    int
	MarginBottom  int
	ManualFeed    bool
	MediaPosition int
	MediaWeight   int
	MirrorPrint   bool
	NegativePrint bool
	NumCopies     int
	Orientation   int
	OutputFaceUp  bool
	// Width and Length of the page in points.
	Width       int
	Length      int
	Separations bool
	TraySwitch  bool
	Tumble      bool

	CUPS CUPSFields
}

// CUPSFields holds the cups-prefixed part of a CUPS page header.
type CUPSFields struct {
	// Width and Height of the page image in pixels.
	Width        int
	Height       int
	MediaType    int
	BitsPerColor int
	BitsPerPixel int
	BytesPerLine int
	ColorOrder   int
	ColorSpace   int
	Compression  int
	RowCount     int
	RowFeed      int
	RowStep      int

	// v2, v3

	// NumColors is the number of color components. Zero means the
	// number implied by ColorSpace.
	NumColors               int
	BorderlessScalingFactor float32
	PageSize                [2]float32
	ImagingBBox             CUPSBoundingBox
	Integer                 [16]int
	Real                    [16]float32
	String                  [16]string
	MarkerType              string
	RenderingIntent         string
	PageSizeName            string
}

// URFHeader is the page header of URF streams.
type URFHeader struct {
	BitsPerPixel  int
	ColorSpace    int
	Duplex        int
	Quality       int
	MediaType     int
	MediaPosition int
	// Width and Height of the page image in pixels.
	Width  int
	Height int
	// DPI is the resolution in both directions.
	DPI int
}
