package http

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/application/transfer"
	"github.com/jhoicas/equipamentos-api/internal/domain"
)

const defaultPreviewRows = 10

// TransferHandler importación de planillas y exportación de movimentações.
type TransferHandler struct {
	importer *transfer.ImportUseCase
	exporter *transfer.ExportUseCase
	loc      *time.Location
	maxBytes int64
}

// NewTransferHandler construye el handler. maxBytes limita el archivo subido.
func NewTransferHandler(importer *transfer.ImportUseCase, exporter *transfer.ExportUseCase, loc *time.Location, maxBytes int) *TransferHandler {
	return &TransferHandler{importer: importer, exporter: exporter, loc: loc, maxBytes: int64(maxBytes)}
}

// readUpload lee el campo multipart "file" y lo parsea.
func (h *TransferHandler) readUpload(c *fiber.Ctx) (*transfer.Sheet, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, domain.Invalid("file", "arquivo obrigatório")
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return nil, domain.Invalid("file", fmt.Sprintf("arquivo excede %d bytes", h.maxBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("leer upload: %w", err)
	}
	return h.importer.Parse(data, fh.Filename)
}

// Preview godoc
// @Summary      Pré-visualizar planilha
// @Description  Reconoce las columnas y devuelve las primeras filas sin persistir nada.
// @Tags         transfer
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file  true   "Planilha .xlsx ou .csv"
// @Param        limit  query     int   false  "Filas"  default(10)
// @Success      200  {object}  dto.ImportPreviewResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/transfer/import/preview [post]
func (h *TransferHandler) Preview(c *fiber.Ctx) error {
	sheet, err := h.readUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	limit := c.QueryInt("limit", defaultPreviewRows)
	rows := transfer.Preview(sheet, limit)

	out := dto.ImportPreviewResponse{
		Headers:   sheet.Headers,
		Columns:   make(map[string]string, len(sheet.Columns)),
		TotalRows: len(sheet.Rows),
		Rows:      make([]map[string]string, 0, len(rows)),
	}
	for field, header := range sheet.Columns {
		out.Columns[string(field)] = header
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, r.Cells)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar equipamentos
// @Description  Procesa fila por fila; las filas inválidas se reportan sin abortar el lote.
// @Tags         transfer
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilha .xlsx ou .csv"
// @Success      200  {object}  transfer.ImportResult
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/transfer/import [post]
func (h *TransferHandler) Import(c *fiber.Ctx) error {
	sheet, err := h.readUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.importer.Import(c.Context(), ActorFrom(c), sheet)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ExportMovements godoc
// @Summary      Exportar movimentações
// @Tags         transfer
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        from          query  string  false  "AAAA-MM-DD (padrão: um mês atrás)"
// @Param        to            query  string  false  "AAAA-MM-DD (padrão: hoje)"
// @Param        kind          query  string  false  "entrada | saida"
// @Param        equipment_id  query  int     false  "Equipamento"
// @Param        format        query  string  false  "xlsx | pdf"  default(xlsx)
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfer/export/movements [get]
func (h *TransferHandler) ExportMovements(c *fiber.Ctx) error {
	var q dto.ExportMovementsQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	from, err := parseDay("from", q.From, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDay("to", q.To, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	file, err := h.exporter.ExportMovements(c.Context(), ActorFrom(c), transfer.ExportFilter{
		From:        from,
		To:          to,
		Kind:        q.Kind,
		EquipmentID: q.EquipmentID,
		Format:      q.Format,
	})
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Set("X-Total-Rows", fmt.Sprint(file.Rows))
	return c.Send(file.Content)
}
