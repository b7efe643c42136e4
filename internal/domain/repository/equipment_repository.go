package repository

import (
	"context"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// EquipmentFilter filtros opcionales del listado de equipamentos.
type EquipmentFilter struct {
	CategoryID int64  // 0 = todas
	Search     string // ILIKE sobre nombre y número de serie
}

// EquipmentRepository define el puerto de persistencia para Equipment (DIP).
type EquipmentRepository interface {
	// Create persiste el equipamento y completa ID/CreatedAt. Una violación del índice único
	// de num_serie se reporta como domain.ErrDuplicateSerial.
	Create(ctx context.Context, equipment *entity.Equipment) error
	GetByID(ctx context.Context, id int64) (*entity.Equipment, error)
	GetBySerial(ctx context.Context, serial string) (*entity.Equipment, error)
	// ExistsBySerial ignora la fila excludeID (0 = no excluir).
	ExistsBySerial(ctx context.Context, serial string, excludeID int64) (bool, error)
	// ListExistingSerials devuelve cuáles de serials ya están registrados (una sola consulta).
	ListExistingSerials(ctx context.Context, serials []string) ([]string, error)
	// ExistsByCategory corta en la primera fila (EXISTS), no cuenta.
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
	List(ctx context.Context, filter EquipmentFilter) ([]*entity.Equipment, error)
	Update(ctx context.Context, equipment *entity.Equipment) error
	Delete(ctx context.Context, id int64) error
	// AdjustQuantity suma delta a quantity en una sola sentencia condicional
	// (quantity + delta >= 0). Si no alcanza devuelve *domain.InsufficientStockError.
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
}
