package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"
)

// Page geometry in millimetres. The page is A4 portrait (595×842 pt).
const (
	pdfMargin         = 10.0
	pdfContentWidth   = 210 - 2*pdfMargin
	pdfPhotoRowHeight = 45.0
)

// pdfBodyBudget is the usable height between the top margin and maroto's
// default bottom margin, minus a little slack.
const pdfBodyBudget = 260.0

var (
	pdfGray      = &props.Color{Red: 90, Green: 90, Blue: 90}
	pdfLightGray = &props.Color{Red: 140, Green: 140, Blue: 140}
	pdfHeaderBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfTotalsBg  = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// pdfCell is one grid column of a layout row: either text or a photo.
type pdfCell struct {
	Size  int
	Text  string
	Style props.Text
	Fill  *props.Color
	Photo *Photo
}

type pdfRow struct {
	Height float64
	Cells  []pdfCell
}

// pdfLayout is the page as fixed-height rows, each tall enough for its
// wrapped text. Rows past the height budget are dropped and counted in
// Clipped.
type pdfLayout struct {
	Rows    []pdfRow
	Clipped int
}

// Texts returns the non-blank cell texts in drawing order.
func (l pdfLayout) Texts() []string {
	var out []string
	for _, r := range l.Rows {
		for _, c := range r.Cells {
			if c.Photo == nil && strings.TrimSpace(c.Text) != "" {
				out = append(out, c.Text)
			}
		}
	}
	return out
}

func (l pdfLayout) Height() float64 {
	var h float64
	for _, r := range l.Rows {
		h += r.Height
	}
	return h
}

// PDFRenderer draws a Document onto a single A4 page with maroto.
type PDFRenderer struct {
	logger *zap.Logger
	// wrap lets tests substitute the drawing document.
	wrap func(core.Maroto) core.Maroto
}

func NewPDFRenderer(logger *zap.Logger) *PDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{logger: logger}
}

// Render returns the PDF bytes for doc. Content that does not fit on the one
// page is clipped, never paginated. ErrRenderContext is returned when the
// drawing document cannot be generated.
func (r *PDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	fonts, err := loadPDFFonts()
	if err != nil {
		PDFRenders.WithLabelValues("error").Inc()
		r.logger.Error("pdf_render: fonts unavailable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRenderContext, err)
	}

	layout := layoutPDF(doc, fonts)
	if layout.Clipped > 0 {
		PDFClippedRows.Add(float64(layout.Clipped))
		r.logger.Warn("pdf_render: content exceeds one page, clipping",
			zap.String("quote", doc.QuoteNumber),
			zap.Int("clipped_rows", layout.Clipped),
		)
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(pdfMargin).
		WithTopMargin(pdfMargin).
		WithRightMargin(pdfMargin).
		WithCustomFonts(fonts.custom).
		WithDefaultFont(fonts.defaultFont()).
		Build()

	m := maroto.New(cfg)
	if r.wrap != nil {
		m = r.wrap(m)
	}
	for _, lr := range layout.Rows {
		m.AddRows(buildRow(lr))
	}

	generated, err := m.Generate()
	PDFRenderDuration.Observe(time.Since(start).Seconds())
	if err == nil && generated == nil {
		err = errors.New("no document generated")
	}
	if err != nil {
		PDFRenders.WithLabelValues("error").Inc()
		r.logger.Error("pdf_render: generate failed", zap.String("quote", doc.QuoteNumber), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRenderContext, err)
	}

	PDFRenders.WithLabelValues("ok").Inc()
	return generated.GetBytes(), nil
}

func buildRow(lr pdfRow) core.Row {
	rw := row.New(lr.Height)
	for _, c := range lr.Cells {
		var column core.Col
		if c.Photo != nil {
			column = col.New(c.Size).Add(
				image.NewFromBytes(c.Photo.Data, extension.Png, props.Rect{Center: true, Percent: 90}),
			)
		} else {
			column = col.New(c.Size).Add(text.New(c.Text, c.Style))
		}
		if c.Fill != nil {
			column = column.WithStyle(&props.Cell{BackgroundColor: c.Fill})
		}
		rw = rw.Add(column)
	}
	return rw
}

// layoutPDF turns the block list into rows, grows each row to fit its
// wrapped text and clips the tail that does not fit pdfBodyBudget.
func layoutPDF(doc Document, fonts *pdfFonts) pdfLayout {
	var rows []pdfRow
	for _, b := range doc.Blocks {
		for _, r := range layoutBlock(b) {
			rows = append(rows, fitRow(r, fonts))
		}
	}

	var layout pdfLayout
	var used float64
	for i, r := range rows {
		if used+r.Height > pdfBodyBudget {
			layout.Clipped = len(rows) - i
			break
		}
		used += r.Height
		layout.Rows = append(layout.Rows, r)
	}
	return layout
}

func layoutBlock(b Block) []pdfRow {
	var rows []pdfRow
	switch b.Kind {
	case BlockHeader:
		rows = append(rows, textRow(10, b.Heading, props.Text{Size: 16, Style: fontstyle.Bold}))
		for _, l := range b.Lines {
			rows = append(rows, textRow(5, l, props.Text{Size: 9, Color: pdfGray}))
		}
		rows = append(rows, pdfRow{Height: 3})
		if b.Table != nil {
			for i, cells := range b.Table.Rows {
				left := props.Text{Size: 9, Color: pdfGray}
				h := 6.0
				if i == 0 {
					left = props.Text{Size: 18, Style: fontstyle.Bold}
					h = 10
				}
				rows = append(rows, pairRow(h, cells, left, props.Text{Size: 9, Align: align.Right, Color: pdfGray}, 6, 6, nil))
			}
		}
		rows = append(rows, pdfRow{Height: 4})

	case BlockParties:
		rows = append(rows, textRow(6, b.Heading, props.Text{Size: 10, Style: fontstyle.Bold}))
		for _, l := range b.Lines {
			rows = append(rows, textRow(5, l, props.Text{Size: 9}))
		}
		rows = append(rows, pdfRow{Height: 3})

	case BlockJobAddress:
		for _, l := range b.Lines {
			rows = append(rows, textRow(6, l, props.Text{Size: 9, Style: fontstyle.Bold}))
		}
		rows = append(rows, pdfRow{Height: 3})

	case BlockItems, BlockExtras:
		rows = append(rows, textRow(7, b.Heading, props.Text{Size: 11, Style: fontstyle.Bold}))
		if b.Table != nil {
			sizes := columnSizes(len(b.Table.Columns))
			header := pdfRow{Height: 7}
			for i, c := range b.Table.Columns {
				header.Cells = append(header.Cells, pdfCell{
					Size:  sizes[i],
					Text:  c,
					Style: props.Text{Size: 8, Style: fontstyle.Bold, Color: pdfWhite, Align: cellAlign(i), Top: 1.5, Left: 1, Right: 1},
					Fill:  pdfHeaderBg,
				})
			}
			rows = append(rows, header)
			for _, cells := range b.Table.Rows {
				r := pdfRow{Height: 6}
				for i, c := range cells {
					if i >= len(sizes) {
						break
					}
					r.Cells = append(r.Cells, pdfCell{
						Size:  sizes[i],
						Text:  c,
						Style: props.Text{Size: 8, Align: cellAlign(i), Top: 1.5, Left: 1, Right: 1},
					})
				}
				rows = append(rows, r)
			}
		}
		rows = append(rows, pdfRow{Height: 4})

	case BlockTotals:
		if b.Table != nil {
			last := len(b.Table.Rows) - 1
			for i, cells := range b.Table.Rows {
				style := props.Text{Size: 9, Align: align.Right, Top: 1.5, Right: 1}
				h := 6.0
				if i == last {
					style.Size = 11
					style.Style = fontstyle.Bold
					h = 8
				}
				rows = append(rows, pairRow(h, cells, style, style, 9, 3, pdfTotalsBg))
			}
		}
		rows = append(rows, pdfRow{Height: 4})

	case BlockNotes:
		rows = append(rows, textRow(7, b.Heading, props.Text{Size: 11, Style: fontstyle.Bold}))
		for _, l := range b.Lines {
			if strings.TrimSpace(l) == "" {
				rows = append(rows, pdfRow{Height: 4})
				continue
			}
			rows = append(rows, textRow(5, l, props.Text{Size: 9}))
		}
		rows = append(rows, pdfRow{Height: 4})

	case BlockPhotos:
		rows = append(rows, textRow(7, b.Heading, props.Text{Size: 11, Style: fontstyle.Bold}))
		r := pdfRow{Height: pdfPhotoRowHeight}
		for i := range b.Photos {
			r.Cells = append(r.Cells, pdfCell{Size: 12 / MaxDocumentPhotos, Photo: &b.Photos[i]})
		}
		rows = append(rows, r, pdfRow{Height: 4})

	case BlockFooter:
		for _, l := range b.Lines {
			rows = append(rows, textRow(6, l, props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Center, Color: pdfLightGray}))
		}
	}
	return rows
}

// fitRow adds one line pitch per wrapped line. Heights from layoutBlock are
// sized for a single line of text.
func fitRow(r pdfRow, fonts *pdfFonts) pdfRow {
	var extra float64
	for _, c := range r.Cells {
		if c.Photo != nil || c.Text == "" {
			continue
		}
		size := cmp.Or(c.Style.Size, fonts.defaultFont().Size)
		width := pdfContentWidth*float64(c.Size)/12 - c.Style.Left - c.Style.Right
		lines := fonts.lineCount(c.Text, c.Style.Style, size, width)
		extra = max(extra, float64(lines-1)*lineHeight(size))
	}
	r.Height += extra
	return r
}

func textRow(height float64, value string, style props.Text) pdfRow {
	return pdfRow{Height: height, Cells: []pdfCell{{Size: 12, Text: value, Style: style}}}
}

// pairRow lays out a two-cell label/value row.
func pairRow(height float64, cells []string, left, right props.Text, leftSize, rightSize int, fill *props.Color) pdfRow {
	r := pdfRow{Height: height}
	sizes := []int{leftSize, rightSize}
	styles := []props.Text{left, right}
	for i, c := range cells {
		if i > 1 {
			break
		}
		r.Cells = append(r.Cells, pdfCell{Size: sizes[i], Text: c, Style: styles[i], Fill: fill})
	}
	return r
}

// columnSizes spreads n columns over the 12-column grid. The first column
// (description / name) gets the remainder.
func columnSizes(n int) []int {
	switch n {
	case 0:
		return nil
	case 4:
		return []int{6, 2, 2, 2}
	case 2:
		return []int{9, 3}
	}
	sizes := make([]int, n)
	each := 12 / n
	for i := range sizes {
		sizes[i] = each
	}
	sizes[0] += 12 - each*n
	return sizes
}

func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Right
}
