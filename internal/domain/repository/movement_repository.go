package repository

import (
	"context"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// MovementFilter filtros del listado/exportación de movimentações.
// From y To son límites inclusivos ya resueltos por el caller.
type MovementFilter struct {
	From        *time.Time
	To          *time.Time
	Kind        string // vacío = todos
	EquipmentID int64  // 0 = todos
	Search      string // ILIKE sobre el nombre del equipamento
	Limit       int    // 0 = sin límite
	Offset      int
}

// MovementRepository define el puerto de persistencia para movimentações.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	// MarkApplied fija aplicado_em solo si sigue en NULL; false si ya estaba aplicado o no existe.
	MarkApplied(ctx context.Context, id int64, at time.Time) (bool, error)
	// List devuelve los movimientos ordenados por fecha descendente con los nombres resueltos.
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementDetail, error)
}
