package compositor

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"

	"statcard/internal/card"
)

// lineSpacing matches card.EstimateSize so measured and estimated
// footprints agree vertically.
const lineSpacing = 1.3

// variants holds regular, bold, italic and bold italic TTF data.
type variants [4][]byte

var families = map[string]variants{
	"Go":           {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	"Go Mono":      {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	"Go Medium":    {gomedium.TTF, gobold.TTF, gomediumitalic.TTF, gobolditalic.TTF},
	"Go Smallcaps": {gosmallcaps.TTF, gosmallcaps.TTF, gosmallcapsitalic.TTF, gosmallcapsitalic.TTF},
}

type fontKey struct {
	family  string
	variant int
}

var (
	fontMu    sync.Mutex
	fontCache = map[fontKey]*truetype.Font{}
)

func variantOf(s card.Style) int {
	v := 0
	if s.Bold {
		v |= 1
	}
	if s.Italic {
		v |= 2
	}
	return v
}

func parsedFont(s card.Style) (*truetype.Font, error) {
	fam, ok := families[s.FontFamily]
	if !ok {
		return nil, fmt.Errorf("unknown font family %q", s.FontFamily)
	}
	key := fontKey{family: s.FontFamily, variant: variantOf(s)}

	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontCache[key]; ok {
		return f, nil
	}
	f, err := truetype.Parse(fam[key.variant])
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	fontCache[key] = f
	return f, nil
}

// Face returns a face for s at the given pixel density.
func Face(s card.Style, scale float64) (font.Face, error) {
	f, err := parsedFont(s)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    s.FontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Measure is a card.Measurer backed by the real glyph metrics.
func Measure(lines []string, s card.Style) card.Size {
	face, err := Face(s, 1)
	if err != nil {
		Logger().Warn("measure with estimate", "family", s.FontFamily, "err", err)
		return card.EstimateSize(lines, s)
	}
	defer face.Close()

	widest := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > widest {
			widest = w
		}
	}
	return card.Size{W: widest, H: int(float64(len(lines)) * s.FontSize * lineSpacing)}
}
