package dto

import (
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// DateLayout formato de las fechas sin hora en requests y responses.
const DateLayout = "2006-01-02"

// ── Categorias ────────────────────────────────────────────────────────────────

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"nome" validate:"required,max=120"`
	Description string `json:"descricao" validate:"omitempty,max=500"`
}

// UpdateCategoryRequest body para PUT /api/categories/:id (campos opcionales).
type UpdateCategoryRequest struct {
	Name        *string `json:"nome" validate:"omitempty,max=120"`
	Description *string `json:"descricao" validate:"omitempty,max=500"`
}

// CategoryResponse salida de una categoria.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse mapea la entidad.
func ToCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

// ── Equipamentos ──────────────────────────────────────────────────────────────

// CreateEquipmentRequest body para POST /api/equipment y cada ítem de /batch.
type CreateEquipmentRequest struct {
	Name            string `json:"nome" validate:"required,max=200"`
	SerialNumber    string `json:"num_serie" validate:"required,max=120"`
	CategoryID      int64  `json:"categoria_id" validate:"required,gt=0"`
	Quantity        int    `json:"quantidade" validate:"required,gte=1"`
	AcquisitionDate string `json:"data_aquisicao" validate:"omitempty,datetime=2006-01-02"`
	Description     string `json:"descricao" validate:"omitempty,max=1000"`
}

// BatchEquipmentRequest body para POST /api/equipment/batch.
type BatchEquipmentRequest struct {
	Items []CreateEquipmentRequest `json:"itens" validate:"required,min=1,max=1000,dive"`
}

// UpdateEquipmentRequest body para PUT /api/equipment/:id (campos opcionales).
type UpdateEquipmentRequest struct {
	Name            *string `json:"nome" validate:"omitempty,max=200"`
	SerialNumber    *string `json:"num_serie" validate:"omitempty,max=120"`
	CategoryID      *int64  `json:"categoria_id" validate:"omitempty,gt=0"`
	Quantity        *int    `json:"quantidade" validate:"omitempty,gte=0"`
	AcquisitionDate *string `json:"data_aquisicao" validate:"omitempty,datetime=2006-01-02"`
	Description     *string `json:"descricao" validate:"omitempty,max=1000"`
}

// EquipmentResponse salida de un equipamento.
type EquipmentResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"nome"`
	SerialNumber    string     `json:"num_serie"`
	CategoryID      int64      `json:"categoria_id"`
	CategoryName    string     `json:"categoria_nome,omitempty"`
	Quantity        int        `json:"quantidade"`
	AcquisitionDate string     `json:"data_aquisicao"`
	Description     string     `json:"descricao"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// ToEquipmentResponse mapea la entidad.
func ToEquipmentResponse(e *entity.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:              e.ID,
		Name:            e.Name,
		SerialNumber:    e.SerialNumber,
		CategoryID:      e.CategoryID,
		CategoryName:    e.CategoryName,
		Quantity:        e.Quantity,
		AcquisitionDate: e.AcquisitionDate.Format(DateLayout),
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ── Movimentações ─────────────────────────────────────────────────────────────

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	EquipmentID int64  `json:"equipamento_id" validate:"required,gt=0"`
	Kind        string `json:"tipo" validate:"required,oneof=entrada saida"`
	Quantity    int    `json:"quantidade" validate:"required,gte=1"`
	Notes       string `json:"observacoes" validate:"omitempty,max=1000"`
}

// ListMovementsQuery query de GET /api/movements.
type ListMovementsQuery struct {
	PageRequest
	Kind        string `query:"kind" validate:"omitempty,oneof=entrada saida"`
	EquipmentID int64  `query:"equipment_id" validate:"omitempty,gt=0"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Search      string `query:"search" validate:"omitempty,max=120"`
}

// MovementResponse salida de una movimentação.
type MovementResponse struct {
	ID            int64      `json:"id"`
	EquipmentID   int64      `json:"equipamento_id"`
	EquipmentName string     `json:"equipamento_nome,omitempty"`
	SerialNumber  string     `json:"num_serie,omitempty"`
	Kind          string     `json:"tipo"`
	Quantity      int        `json:"quantidade"`
	Date          time.Time  `json:"data"`
	UserID        string     `json:"usuario_id"`
	UserName      string     `json:"usuario_nome,omitempty"`
	Notes         string     `json:"observacoes"`
	AppliedAt     *time.Time `json:"aplicado_em,omitempty"`
}

// ToMovementResponse mapea un movimiento recién registrado.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		EquipmentID: m.EquipmentID,
		Kind:        m.Kind,
		Quantity:    m.Quantity,
		Date:        m.Date,
		UserID:      m.UserID,
		Notes:       m.Notes,
		AppliedAt:   m.AppliedAt,
	}
}

// ToMovementDetailResponse mapea un movimiento con los nombres resueltos.
func ToMovementDetailResponse(d *entity.MovementDetail) MovementResponse {
	r := ToMovementResponse(&d.Movement)
	r.EquipmentName = d.EquipmentName
	r.SerialNumber = d.SerialNumber
	r.UserName = d.UserName
	return r
}
