// Package pdf genera el informe de movimentações con Maroto v2.
//
// Layout de la página A4 apaisada:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + período          │  fecha de emisión      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Equipamento | Nº Série | Tipo | Qtd | Data | ...     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de registros                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/equipamentos-api/internal/application/transfer"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// columnSizes ancho (grilla de 12) de cada columna del informe.
var columnSizes = []int{3, 2, 1, 1, 2, 2, 1}

var _ transfer.ReportRenderer = (*MarotoReportRenderer)(nil)

// MarotoReportRenderer implementa transfer.ReportRenderer.
type MarotoReportRenderer struct {
	author string
	now    func() time.Time
}

// NewMarotoReportRenderer construye el generador. author se graba en los metadatos del PDF.
func NewMarotoReportRenderer(author string) *MarotoReportRenderer {
	return &MarotoReportRenderer{author: author, now: time.Now}
}

// RenderMovementReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportRenderer) RenderMovementReport(title, period string, headers []string, rows [][]string) ([]byte, error) {
	if len(headers) != len(columnSizes) {
		return nil, fmt.Errorf("pdf: se esperaban %d columnas, llegaron %d", len(columnSizes), len(headers))
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(title, period, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(headers))
	m.AddRows(tableRows(rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total de registros: %d", len(rows)), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 1,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title, period string, issued time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Período: "+period, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Emitido em "+issued.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(headers []string) core.Row {
	cols := make([]core.Col, 0, len(headers))
	for i, h := range headers {
		cols = append(cols, col.New(columnSizes[i]).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

// tableRows una fila por movimiento, con fondo alternado.
func tableRows(rows [][]string) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for n, cells := range rows {
		cols := make([]core.Col, 0, len(columnSizes))
		for i, size := range columnSizes {
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			a := align.Left
			if i == 3 {
				a = align.Center
			}
			cols = append(cols, col.New(size).Add(text.New(value, props.Text{
				Size: 7, Align: a, Top: 1, Left: 1, Right: 1,
			})))
		}
		r := row.New(6).Add(cols...)
		if n%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}
