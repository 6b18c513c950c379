package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	fixedpt "golang.org/x/image/math/fixed"
)

// pdfFontFamily is the embedded UTF-8 family every PDF cell is drawn with.
// The core PDF fonts only cover cp1252, so names such as "Łukasz" would
// lose characters.
const pdfFontFamily = "go"

const mmPerPt = 25.4 / 72

// pdfWrapSlack is taken off every column width when counting wrapped lines,
// so rounding in the PDF writer's width tables never yields one line more
// than was measured.
const pdfWrapSlack = 0.5

var pdfFontFiles = []struct {
	style fontstyle.Type
	ttf   []byte
}{
	{fontstyle.Normal, goregular.TTF},
	{fontstyle.Bold, gobold.TTF},
	{fontstyle.Italic, goitalic.TTF},
	{fontstyle.BoldItalic, gobolditalic.TTF},
}

// pdfFonts holds the embedded font files for maroto and parsed copies of
// the same files for measuring text.
type pdfFonts struct {
	custom []*entity.CustomFont
	faces  map[fontstyle.Type]*sfnt.Font
}

var loadPDFFonts = sync.OnceValues(func() (*pdfFonts, error) {
	repo := repository.New()
	faces := make(map[fontstyle.Type]*sfnt.Font, len(pdfFontFiles))
	for _, f := range pdfFontFiles {
		repo = repo.AddUTF8FontFromBytes(pdfFontFamily, f.style, f.ttf)
		parsed, err := opentype.Parse(f.ttf)
		if err != nil {
			return nil, fmt.Errorf("pdf fonts: parse %q style: %w", f.style, err)
		}
		faces[f.style] = parsed
	}
	custom, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("pdf fonts: load: %w", err)
	}
	return &pdfFonts{custom: custom, faces: faces}, nil
})

func (f *pdfFonts) defaultFont() *props.Font {
	return &props.Font{Family: pdfFontFamily, Style: fontstyle.Normal, Size: 10}
}

// width returns the drawn width of s in millimetres.
func (f *pdfFonts) width(s string, style fontstyle.Type, sizePt float64) float64 {
	face, ok := f.faces[style]
	if !ok {
		face = f.faces[fontstyle.Normal]
	}
	var buf sfnt.Buffer
	upem := face.UnitsPerEm()
	ppem := fixedpt.Int26_6(upem) << 6

	var units fixedpt.Int26_6
	for _, r := range s {
		idx, err := face.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		adv, err := face.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		units += adv
	}
	return float64(units) / 64 / float64(upem) * sizePt * mmPerPt
}

// lineCount is how many lines maroto needs for s in a column width mm
// wide. Words are split on single spaces and never broken.
func (f *pdfFonts) lineCount(s string, style fontstyle.Type, sizePt, width float64) int {
	width -= pdfWrapSlack
	if f.width(s, style, sizePt) <= width {
		return 1
	}

	lines := 0
	var used float64
	for _, word := range strings.Split(s, " ") {
		if word == "" {
			continue
		}
		piece := word
		if lines > 0 {
			piece = " " + word
		}
		w := f.width(piece, style, sizePt)
		if lines > 0 && used+w <= width {
			used += w
			continue
		}
		if lines == 0 && w <= width {
			lines, used = 1, w
			continue
		}
		lines++
		used = f.width(word, style, sizePt)
	}
	return max(lines, 1)
}

// lineHeight is the baseline pitch maroto uses for a font size.
func lineHeight(sizePt float64) float64 {
	return sizePt * mmPerPt
}
