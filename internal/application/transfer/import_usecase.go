package transfer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/pkg/logger"
)

// DefaultCategory se usa cuando la celda de categoria está vacía.
const DefaultCategory = "Outros"

// Row es una fila de datos de la planilla: encabezado original → celda.
type Row struct {
	Line  int               `json:"line"`
	Cells map[string]string `json:"cells"`
}

// Sheet es el resultado de Parse.
type Sheet struct {
	Headers []string
	Columns ColumnMap
	Rows    []Row
}

// Value devuelve la celda del campo f en r, sin espacios alrededor.
func (s *Sheet) Value(r Row, f Field) string {
	header, ok := s.Columns[f]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.Cells[header])
}

// RowError describe una fila que no se pudo importar.
type RowError struct {
	Line    int    `json:"line"`
	Serial  string `json:"serial,omitempty"`
	Message string `json:"message"`
}

// ImportResult totales de una importación.
type ImportResult struct {
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Errors    []RowError `json:"errors"`
}

// ImportUseCase importa equipamentos desde una planilla, fila por fila.
type ImportUseCase struct {
	reader     TableReader
	equipment  *inventory.EquipmentUseCase
	categories *inventory.CategoryUseCase
	log        *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	reader TableReader,
	equipment *inventory.EquipmentUseCase,
	categories *inventory.CategoryUseCase,
	log *logger.Logger,
) *ImportUseCase {
	return &ImportUseCase{reader: reader, equipment: equipment, categories: categories, log: log}
}

// Parse decodifica el archivo y resuelve sus encabezados. Las filas totalmente vacías se omiten.
func (uc *ImportUseCase) Parse(data []byte, filename string) (*Sheet, error) {
	table, err := uc.reader.ReadTable(data, filename)
	if err != nil {
		if errors.Is(err, domain.ErrUnrecognizedFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnrecognizedFormat, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: planilha vazia", domain.ErrUnrecognizedFormat)
	}
	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.TrimSpace(h)
	}
	columns, err := ResolveColumns(headers)
	if err != nil {
		return nil, err
	}
	sheet := &Sheet{Headers: headers, Columns: columns}
	for i, cells := range table[1:] {
		row := Row{Line: i + 2, Cells: make(map[string]string, len(headers))}
		blank := true
		for j, h := range headers {
			if h == "" || j >= len(cells) {
				continue
			}
			row.Cells[h] = cells[j]
			if strings.TrimSpace(cells[j]) != "" {
				blank = false
			}
		}
		if !blank {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet, nil
}

// Preview devuelve las primeras limit filas sin modificar.
func Preview(sheet *Sheet, limit int) []Row {
	if sheet == nil || limit <= 0 {
		return nil
	}
	if limit > len(sheet.Rows) {
		limit = len(sheet.Rows)
	}
	out := make([]Row, limit)
	copy(out, sheet.Rows[:limit])
	return out
}

// Import procesa las filas en orden. El fallo de una fila se agrega al resultado y no
// interrumpe el resto. Si el número de serie ya existe se actualizan categoria, cantidad y
// descripción; si no, se da de alta.
func (uc *ImportUseCase) Import(ctx context.Context, actor policy.Actor, sheet *Sheet) (*ImportResult, error) {
	if err := policy.Authorize(actor, policy.CapImportEquipment); err != nil {
		return nil, err
	}
	result := &ImportResult{Errors: []RowError{}}
	if sheet == nil {
		return result, nil
	}
	categoryIDs := map[string]int64{}
	for _, row := range sheet.Rows {
		created, err := uc.importRow(ctx, actor, sheet, row, categoryIDs)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Line:    row.Line,
				Serial:  sheet.Value(row, FieldSerial),
				Message: rowMessage(err),
			})
			uc.log.Warn().Err(err).Int("line", row.Line).Str("user_id", actor.UserID).Msg("fila de importación rechazada")
			continue
		}
		result.Succeeded++
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	uc.log.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Str("user_id", actor.UserID).
		Msg("importación de equipamentos finalizada")
	return result, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, actor policy.Actor, sheet *Sheet, row Row, categoryIDs map[string]int64) (bool, error) {
	name := sheet.Value(row, FieldName)
	serial := sheet.Value(row, FieldSerial)
	if name == "" || serial == "" {
		return false, domain.Invalid("", "nome e número de série são obrigatórios")
	}
	quantity, err := ParseQuantity(sheet.Value(row, FieldQuantity))
	if err != nil {
		return false, err
	}
	categoryID, err := uc.resolveCategory(ctx, actor, sheet.Value(row, FieldCategory), categoryIDs)
	if err != nil {
		return false, err
	}
	acquired := ParseDate(sheet.Value(row, FieldAcquired))
	description := sheet.Value(row, FieldDescription)

	existing, err := uc.equipment.GetBySerial(ctx, actor, serial)
	if err != nil {
		return false, err
	}
	if existing != nil {
		_, err := uc.equipment.Update(ctx, actor, existing.ID, inventory.EquipmentPatch{
			CategoryID:  &categoryID,
			Quantity:    &quantity,
			Description: &description,
		})
		return false, err
	}
	_, err = uc.equipment.Create(ctx, actor, inventory.EquipmentInput{
		Name:            name,
		SerialNumber:    serial,
		CategoryID:      categoryID,
		Quantity:        quantity,
		AcquisitionDate: acquired,
		Description:     description,
	})
	return err == nil, err
}

// resolveCategory busca la categoria por nombre y la crea en el primer uso; el resultado
// queda memorizado para el resto de la importación.
func (uc *ImportUseCase) resolveCategory(ctx context.Context, actor policy.Actor, name string, known map[string]int64) (int64, error) {
	if name == "" {
		name = DefaultCategory
	}
	// misma regla que la búsqueda en la base: solo sin distinguir mayúsculas
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := known[key]; ok {
		return id, nil
	}
	category, err := uc.categories.ResolveByName(ctx, actor, name)
	if err != nil {
		return 0, err
	}
	if category == nil {
		category, err = uc.categories.Create(ctx, actor, inventory.CategoryInput{Name: name})
		if err != nil {
			return 0, err
		}
	}
	known[key] = category.ID
	return category.ID, nil
}

// thousandsGroups reconoce enteros con separador de miles pt-BR, ej: 1.000 o 12.500.000.
var thousandsGroups = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseQuantity interpreta la celda de cantidad. Vacía o cero vale 1. Con coma decimal el
// punto es separador de miles; sin coma, "1.000" también se lee como mil.
func ParseQuantity(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 1, nil
	}
	number := cell
	switch {
	case strings.Contains(number, ","):
		number = strings.Replace(strings.ReplaceAll(number, ".", ""), ",", ".", 1)
	case thousandsGroups.MatchString(number):
		number = strings.ReplaceAll(number, ".", "")
	}
	n, err := strconv.Atoi(number)
	if err != nil {
		f, ferr := strconv.ParseFloat(number, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, domain.Invalid("quantidade", fmt.Sprintf("valor inválido %q", cell))
		}
		n = int(f)
	}
	if n < 0 {
		return 0, domain.Invalid("quantidade", "não pode ser negativa")
	}
	if n == 0 {
		return 1, nil
	}
	return n, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
}

// excelEpoch es el día 0 de los seriales de fecha de Excel (sistema 1900).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate acepta ISO, dd/mm/aaaa, RFC 3339 y seriales de Excel. Si no reconoce el valor
// devuelve la fecha de hoy.
func ParseDate(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return inventory.Today()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	if serial, err := strconv.ParseFloat(cell, 64); err == nil && serial >= 1 && serial < 2958466 {
		return excelEpoch.AddDate(0, 0, int(serial))
	}
	return inventory.Today()
}

func rowMessage(err error) string {
	var invalid *domain.ValidationError
	var dup *domain.DuplicateSerialError
	switch {
	case errors.As(err, &invalid):
		if invalid.Field == "" {
			return invalid.Reason
		}
		return invalid.Field + " " + invalid.Reason
	case errors.As(err, &dup):
		return "número de série já cadastrado"
	case errors.Is(err, domain.ErrForbidden):
		return "permissão insuficiente"
	default:
		return "erro ao gravar o equipamento"
	}
}
