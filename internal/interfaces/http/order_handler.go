package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/application/usecase"
)

// OrderHandler maneja las peticiones HTTP de pedidos.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	acquired, err := parseDay("data_aquisicao", req.AcquisitionDate, time.UTC)
	if err != nil {
		return writeError(c, err)
	}
	in := usecase.OrderInput{Manufacturer: req.Manufacturer, TrackingCode: req.TrackingCode}
	if acquired != nil {
		in.AcquisitionDate = *acquired
	}
	o, err := h.uc.Create(c.Context(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderResponse(o))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        manufacturer  query  string  false  "Fabricante (contém)"
// @Param        from          query  string  false  "Aquisição desde AAAA-MM-DD"
// @Param        to            query  string  false  "Aquisição até AAAA-MM-DD"
// @Param        search        query  string  false  "Código de rastreamento ou fabricante"
// @Param        sort          query  string  false  "data_criacao | fabricante | data_aquisicao | codigo_rastreamento"
// @Param        asc           query  bool    false  "Ordem ascendente"
// @Param        page          query  int     false  "Página"  default(1)
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.ListOrdersQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	from, err := parseDay("from", q.From, time.UTC)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDay("to", q.To, time.UTC)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.uc.List(c.Context(), ActorFrom(c), usecase.OrderQuery{
		Manufacturer: q.Manufacturer,
		From:         from,
		To:           to,
		Search:       q.Search,
		SortField:    q.Sort,
		Ascending:    q.Asc,
		Page:         q.Page,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(page.Items)),
		Page:  dto.PageResponse{Page: page.Page, PageSize: page.PageSize, Total: page.Total, Pages: page.Pages()},
	}
	for _, o := range page.Items {
		out.Items = append(out.Items, dto.ToOrderResponse(o))
	}
	return c.JSON(out)
}
