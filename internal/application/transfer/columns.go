package transfer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/equipamentos-api/internal/domain"
)

// Field es un campo canónico de la planilla de importación.
type Field string

const (
	FieldName        Field = "name"
	FieldSerial      Field = "serial"
	FieldCategory    Field = "category"
	FieldQuantity    Field = "quantity"
	FieldAcquired    Field = "acquired"
	FieldDescription Field = "description"
)

// fieldOrder define la prioridad al reclamar encabezados.
var fieldOrder = []Field{FieldName, FieldSerial, FieldCategory, FieldQuantity, FieldAcquired, FieldDescription}

var requiredFields = []Field{FieldName, FieldSerial, FieldCategory, FieldQuantity}

// vocabulary variantes aceptadas por campo, ya normalizadas.
var vocabulary = map[Field][]string{
	FieldName:        {"nome", "name", "equipamento"},
	FieldSerial:      {"num serie", "numero de serie", "n serie", "serial"},
	FieldCategory:    {"categoria", "category"},
	FieldQuantity:    {"quantidade", "quantity", "qtd"},
	FieldAcquired:    {"data aquisicao", "data de aquisicao", "acquisition date"},
	FieldDescription: {"descricao", "description", "observacoes"},
}

// ColumnMap asocia cada campo reconocido con el encabezado original de la planilla.
type ColumnMap map[Field]string

// NormalizeHeader pliega mayúsculas, quita acentos y convierte separadores en espacios.
// "Nº Série" → "n serie", "Data_de-Aquisição" → "data de aquisicao".
func NormalizeHeader(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)
	folded = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', 'º', '°', 'ª':
			return ' '
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// ResolveColumns resuelve los encabezados una sola vez. Una coincidencia exacta gana sobre
// una por substring y cada encabezado se asigna a lo sumo a un campo.
func ResolveColumns(headers []string) (ColumnMap, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	claimed := make([]bool, len(headers))
	columns := ColumnMap{}

	claim := func(f Field, match func(header, variant string) bool) {
		if _, done := columns[f]; done {
			return
		}
		for _, variant := range vocabulary[f] {
			for i, h := range normalized {
				if claimed[i] || h == "" {
					continue
				}
				if match(h, variant) {
					columns[f] = headers[i]
					claimed[i] = true
					return
				}
			}
		}
	}
	for _, f := range fieldOrder {
		claim(f, func(h, v string) bool { return h == v })
	}
	for _, f := range fieldOrder {
		claim(f, strings.Contains)
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := columns[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: colunas ausentes: %s", domain.ErrUnrecognizedFormat, strings.Join(missing, ", "))
	}
	return columns, nil
}
