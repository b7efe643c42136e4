package dto

import (
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Manufacturer    string `json:"fabricante" validate:"required,max=200"`
	AcquisitionDate string `json:"data_aquisicao" validate:"required,datetime=2006-01-02"`
	TrackingCode    string `json:"codigo_rastreamento" validate:"omitempty,max=120"`
}

// ListOrdersQuery query de GET /api/orders.
type ListOrdersQuery struct {
	Manufacturer string `query:"manufacturer" validate:"omitempty,max=200"`
	From         string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Search       string `query:"search" validate:"omitempty,max=120"`
	Sort         string `query:"sort" validate:"omitempty,oneof=data_criacao fabricante data_aquisicao codigo_rastreamento"`
	Asc          bool   `query:"asc"`
	Page         int    `query:"page" validate:"omitempty,min=1"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              int64     `json:"id"`
	Manufacturer    string    `json:"fabricante"`
	AcquisitionDate string    `json:"data_aquisicao"`
	TrackingCode    string    `json:"codigo_rastreamento"`
	CreatedBy       string    `json:"usuario_id"`
	CreatorName     string    `json:"usuario_nome,omitempty"`
	CreatedAt       time.Time `json:"data_criacao"`
}

// OrderListResponse página de pedidos con el total exacto.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToOrderResponse mapea la entidad.
func ToOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		Manufacturer:    o.Manufacturer,
		AcquisitionDate: o.AcquisitionDate.Format(DateLayout),
		TrackingCode:    o.TrackingCode,
		CreatedBy:       o.CreatedBy,
		CreatorName:     o.CreatorName,
		CreatedAt:       o.CreatedAt,
	}
}
