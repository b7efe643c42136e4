package repository

import (
	"context"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// Campos por los que se puede ordenar el listado de pedidos.
const (
	OrderSortCreatedAt       = "data_criacao"
	OrderSortManufacturer    = "fabricante"
	OrderSortAcquisitionDate = "data_aquisicao"
	OrderSortTrackingCode    = "codigo_rastreamento"
)

// OrderFilter filtros, orden y paginación del listado de pedidos.
type OrderFilter struct {
	Manufacturer string     // ILIKE
	From         *time.Time // data_aquisicao >=
	To           *time.Time // data_aquisicao <=
	Search       string     // ILIKE sobre codigo_rastreamento o fabricante
	SortField    string
	Ascending    bool
	Limit        int
	Offset       int
}

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// List devuelve la página pedida y el total exacto de filas que cumplen el filtro.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, int, error)
}
