package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
}

// ErrorResponse cuerpo de error HTTP. Available acompaña INSUFFICIENT_STOCK y Serials
// acompaña DUPLICATE_SERIAL.
type ErrorResponse struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Field     string   `json:"field,omitempty"`
	Available *int     `json:"available,omitempty"`
	Serials   []string `json:"serials,omitempty"`
}
