package inventory

import (
	"context"

	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza el todo-o-nada del alta por lote y de la aplicación de un movimiento al stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		equipmentRepo repository.EquipmentRepository,
		categoryRepo repository.CategoryRepository,
		movementRepo repository.MovementRepository,
	) error) error
}
