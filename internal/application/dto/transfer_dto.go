package dto

// ImportPreviewResponse salida de POST /api/transfer/import/preview.
type ImportPreviewResponse struct {
	Headers   []string            `json:"headers"`
	Columns   map[string]string   `json:"columns"` // campo canónico → encabezado
	TotalRows int                 `json:"total_rows"`
	Rows      []map[string]string `json:"rows"`
}

// ExportMovementsQuery query de GET /api/transfer/export/movements.
type ExportMovementsQuery struct {
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Kind        string `query:"kind" validate:"omitempty,oneof=entrada saida"`
	EquipmentID int64  `query:"equipment_id" validate:"omitempty,gt=0"`
	Format      string `query:"format" validate:"omitempty,oneof=xlsx pdf"`
}
