package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// OrderPageSize filas por página del listado de pedidos.
const OrderPageSize = 10

// OrderInput datos de un pedido nuevo.
type OrderInput struct {
	Manufacturer    string
	AcquisitionDate time.Time
	TrackingCode    string
}

// OrderQuery filtros del listado. Page empieza en 1.
type OrderQuery struct {
	Manufacturer string
	From         *time.Time
	To           *time.Time
	Search       string
	SortField    string
	Ascending    bool
	Page         int
}

// OrderPage resultado paginado con el total exacto.
type OrderPage struct {
	Items    []*entity.Order
	Page     int
	PageSize int
	Total    int
}

// Pages cantidad de páginas para Total.
func (p *OrderPage) Pages() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// OrderUseCase registro de pedidos de compra (auditoría, no mueve stock).
type OrderUseCase struct {
	repo repository.OrderRepository
	now  func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{repo: repo, now: time.Now}
}

// Create registra un pedido; el creador es el actor.
func (uc *OrderUseCase) Create(ctx context.Context, actor policy.Actor, in OrderInput) (*entity.Order, error) {
	if err := policy.Authorize(actor, policy.CapCreateOrder); err != nil {
		return nil, err
	}
	manufacturer := strings.TrimSpace(in.Manufacturer)
	if manufacturer == "" {
		return nil, domain.Invalid("fabricante", "es obligatorio")
	}
	if in.AcquisitionDate.IsZero() {
		return nil, domain.Invalid("data_aquisicao", "es obligatoria")
	}
	order := &entity.Order{
		Manufacturer:    manufacturer,
		AcquisitionDate: in.AcquisitionDate,
		TrackingCode:    strings.TrimSpace(in.TrackingCode),
		CreatedBy:       actor.UserID,
		CreatedAt:       uc.now(),
	}
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, domain.Gateway("crear pedido", err)
	}
	return order, nil
}

// List lista pedidos filtrados, ordenados y paginados de a OrderPageSize.
func (uc *OrderUseCase) List(ctx context.Context, actor policy.Actor, q OrderQuery) (*OrderPage, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, domain.Invalid("from", "posterior a to")
	}
	sortField := q.SortField
	ascending := q.Ascending
	switch sortField {
	case repository.OrderSortManufacturer, repository.OrderSortAcquisitionDate,
		repository.OrderSortTrackingCode, repository.OrderSortCreatedAt:
	case "":
		sortField, ascending = repository.OrderSortCreatedAt, false
	default:
		return nil, domain.Invalid("sort", "campo no permitido")
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	items, total, err := uc.repo.List(ctx, repository.OrderFilter{
		Manufacturer: strings.TrimSpace(q.Manufacturer),
		From:         q.From,
		To:           q.To,
		Search:       strings.TrimSpace(q.Search),
		SortField:    sortField,
		Ascending:    ascending,
		Limit:        OrderPageSize,
		Offset:       (page - 1) * OrderPageSize,
	})
	if err != nil {
		return nil, domain.Gateway("listar pedidos", err)
	}
	return &OrderPage{Items: items, Page: page, PageSize: OrderPageSize, Total: total}, nil
}
