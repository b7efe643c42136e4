// Package spreadsheet lee y escribe planillas: xlsx con excelize y csv con encoding/csv.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/transfer"
	"github.com/jhoicas/equipamentos-api/internal/domain"
)

var (
	_ transfer.TableReader = (*Codec)(nil)
	_ transfer.TableWriter = (*Codec)(nil)
)

// Codec implementa TableReader y TableWriter.
type Codec struct{}

// NewCodec construye el codec.
func NewCodec() *Codec { return &Codec{} }

// ReadTable devuelve la primera hoja. Un .csv (o contenido que no sea un zip) se lee como CSV.
// Las celdas de fecha llegan como serial de Excel (RawCellValue).
func (c *Codec) ReadTable(data []byte, filename string) ([][]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: arquivo vazio", domain.ErrUnrecognizedFormat)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".csv" || (ext != ".xlsx" && !bytes.HasPrefix(data, []byte("PK"))) {
		return readCSV(data)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnrecognizedFormat, err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: pasta de trabalho sem planilhas", domain.ErrUnrecognizedFormat)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnrecognizedFormat, err)
	}
	return rows, nil
}

// WriteTable genera un xlsx con una hoja, encabezado en negrita y columnas autoajustadas.
func (c *Codec) WriteTable(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("escribir encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("estilo encabezado: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("aplicar estilo: %w", err)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("escribir fila %d: %w", r+2, err)
		}
		for i, v := range row {
			if i < len(widths) {
				if n := len([]rune(fmt.Sprint(v))); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if w > 60 {
			w = 60
		}
		if err := f.SetColWidth(sheet, col, col, float64(w+2)); err != nil {
			return nil, fmt.Errorf("ancho de columna: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// readCSV acepta ',' o ';' como separador (Excel en pt-BR exporta con ';') y quita el BOM.
func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	r := csv.NewReader(bytes.NewReader(data))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		r.Comma = ';'
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnrecognizedFormat, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
