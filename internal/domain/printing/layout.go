package printing

// PaperSize is a supported sheet format
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"
	PaperSizeLetter PaperSize = "LETTER"
)

func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4 || p == PaperSizeLetter
}

// Dimensions returns width and height in millimeters. Unknown sizes are
// treated as A4.
func (p PaperSize) Dimensions() (width, height int) {
	if p == PaperSizeLetter {
		return 216, 279
	}
	return 210, 297
}

type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// Margins are in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

const documentMarginMM = 12

// Layout is the page setup a document is printed with
type Layout struct {
	PaperSize   PaperSize   `json:"paper_size"`
	Orientation Orientation `json:"orientation"`
	Margins     Margins     `json:"margins"`
}

// DefaultLayout returns the page setup for doc on paper, falling back to
// Letter for an unknown paper size
func DefaultLayout(doc DocType, paper PaperSize) Layout {
	if !paper.IsValid() {
		paper = PaperSizeLetter
	}
	l := Layout{
		PaperSize:   paper,
		Orientation: OrientationPortrait,
		Margins:     Margins{Top: documentMarginMM, Right: documentMarginMM, Bottom: documentMarginMM, Left: documentMarginMM},
	}
	if docTypes[doc].landscape {
		l.Orientation = OrientationLandscape
	}
	return l
}
