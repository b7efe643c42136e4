package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// Formatos de exportación.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

const (
	MovementsSheet  = "Movimentações"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	brDateTime      = "02/01/2006, 15:04:05"
	brDate          = "02/01/2006"
)

// MovementHeaders encabezados de la planilla exportada, en el orden de las columnas.
var MovementHeaders = []string{"Equipamento", "Nº Série", "Tipo", "Quantidade", "Data", "Responsável", "Observações"}

// ExportFilter período y filtros de la exportación. From y To son fechas (la hora se ignora);
// si faltan se exporta el último mes.
type ExportFilter struct {
	From        *time.Time
	To          *time.Time
	Kind        string
	EquipmentID int64
	Format      string
}

// ExportFile archivo generado.
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
	Rows        int
}

// ExportUseCase exporta movimentações a planilla o PDF.
type ExportUseCase struct {
	movements repository.MovementRepository
	writer    TableWriter
	renderer  ReportRenderer
	loc       *time.Location
	now       func() time.Time
}

// NewExportUseCase construye el caso de uso. loc es la zona horaria de los límites del
// período y de las fechas mostradas.
func NewExportUseCase(movements repository.MovementRepository, writer TableWriter, renderer ReportRenderer, loc *time.Location) *ExportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportUseCase{movements: movements, writer: writer, renderer: renderer, loc: loc, now: time.Now}
}

// ExportMovements arma una fila por movimiento en [From 00:00, To 23:59:59.999], fecha descendente.
// Devuelve domain.ErrEmptyResult si no hay filas.
func (uc *ExportUseCase) ExportMovements(ctx context.Context, actor policy.Actor, f ExportFilter) (*ExportFile, error) {
	if err := policy.Authorize(actor, policy.CapExportMovements); err != nil {
		return nil, err
	}
	format := strings.ToLower(strings.TrimSpace(f.Format))
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatPDF {
		return nil, domain.Invalid("format", "deve ser xlsx ou pdf")
	}
	if f.Kind != "" && !entity.ValidMovementKind(f.Kind) {
		return nil, domain.Invalid("tipo", "deve ser entrada ou saida")
	}
	from, to := uc.period(f.From, f.To)
	if to.Before(from) {
		return nil, domain.Invalid("periodo", "data final anterior à inicial")
	}

	list, err := uc.movements.List(ctx, repository.MovementFilter{
		From:        &from,
		To:          &to,
		Kind:        f.Kind,
		EquipmentID: f.EquipmentID,
	})
	if err != nil {
		return nil, domain.Gateway("listar movimentações para exportación", err)
	}
	if len(list) == 0 {
		return nil, domain.ErrEmptyResult
	}

	stamp := uc.now().In(uc.loc).Format("2006-01-02")
	file := &ExportFile{Rows: len(list)}
	switch format {
	case FormatPDF:
		rows := make([][]string, 0, len(list))
		for _, m := range list {
			cells := uc.movementRow(m)
			text := make([]string, len(cells))
			for i, c := range cells {
				text[i] = fmt.Sprint(c)
			}
			rows = append(rows, text)
		}
		period := from.Format(brDate) + " a " + to.Format(brDate)
		file.Content, err = uc.renderer.RenderMovementReport("Relatório de Movimentações", period, MovementHeaders, rows)
		file.Name = "movimentacoes_" + stamp + ".pdf"
		file.ContentType = ContentTypePDF
	default:
		rows := make([][]any, 0, len(list))
		for _, m := range list {
			rows = append(rows, uc.movementRow(m))
		}
		file.Content, err = uc.writer.WriteTable(MovementsSheet, MovementHeaders, rows)
		file.Name = "movimentacoes_" + stamp + ".xlsx"
		file.ContentType = ContentTypeXLSX
	}
	if err != nil {
		return nil, fmt.Errorf("generar %s: %w", format, err)
	}
	return file, nil
}

// period resuelve los límites en la zona configurada: inicio del primer día y último instante
// del día final.
func (uc *ExportUseCase) period(fromDate, toDate *time.Time) (time.Time, time.Time) {
	today := uc.now().In(uc.loc)
	var from, to time.Time
	if toDate != nil {
		to = *toDate
	} else {
		to = today
	}
	if fromDate != nil {
		from = *fromDate
	} else {
		from = to.AddDate(0, -1, 0)
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, uc.loc)
	to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(time.Second-time.Millisecond), uc.loc)
	return from, to
}

func (uc *ExportUseCase) movementRow(m *entity.MovementDetail) []any {
	return []any{
		m.EquipmentName,
		m.SerialNumber,
		KindLabel(m.Kind),
		m.Quantity,
		m.Date.In(uc.loc).Format(brDateTime),
		m.UserName,
		m.Notes,
	}
}

// KindLabel traduce el tipo a la etiqueta mostrada.
func KindLabel(kind string) string {
	if kind == entity.MovementKindIn {
		return "Entrada"
	}
	return "Saída"
}
