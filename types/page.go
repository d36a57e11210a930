package types

import (
	"fmt"
	"strings"
)

// PageSize describes a physical page format in millimeters.
type PageSize struct {
	Name     string  `json:"name" yaml:"name"`
	WidthMM  float64 `json:"widthMm" yaml:"widthMm"`
	HeightMM float64 `json:"heightMm" yaml:"heightMm"`
}

// Standard page sizes in millimeters.
var (
	PageSizeA4     = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}
	PageSizeLetter = PageSize{Name: "LETTER", WidthMM: 215.9, HeightMM: 279.4}
)

// ParsePageSize resolves a page size by name.
//
// Names are matched case-insensitively, so "Letter" and "LETTER" are equivalent.
//
// Returns:
//   - PageSize: The matching preset
//   - error: ErrUnknownPageSize if the name is not a supported format
func ParsePageSize(name string) (PageSize, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A4":
		return PageSizeA4, nil
	case "LETTER":
		return PageSizeLetter, nil
	default:
		return PageSize{}, fmt.Errorf("%w: %q", ErrUnknownPageSize, name)
	}
}

// Margins holds page margins in millimeters.
//
// Each side is expected in [MinMarginMM, MaxMarginMM]; clamping is the
// caller's responsibility.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
}

// Valid margin range in millimeters.
const (
	MinMarginMM = 5
	MaxMarginMM = 25
)

// InRange reports whether every side lies within [MinMarginMM, MaxMarginMM].
func (m Margins) InRange() bool {
	for _, v := range []float64{m.Top, m.Bottom, m.Left, m.Right} {
		if v < MinMarginMM || v > MaxMarginMM {
			return false
		}
	}

	return true
}

// ContentArea is the page region left for content after margins, in pixels.
type ContentArea struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageSettings bundles the caller-driven page configuration.
type PageSettings struct {
	PageSize PageSize `json:"pageSize"`
	Margins  Margins  `json:"margins"`
}
