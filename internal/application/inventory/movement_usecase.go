package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

const (
	defaultMovementPage = 50
	maxMovementPage     = 500
)

// MovementInput entrada para registrar una movimentação.
type MovementInput struct {
	EquipmentID int64
	Kind        string
	Quantity    int
	Notes       string
}

// MovementUseCase registra y lista movimientos. Registrar no altera Equipment.Quantity;
// ApplyToStock es la operación separada que lo hace.
type MovementUseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository
	equipment repository.EquipmentRepository
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, movements repository.MovementRepository, equipment repository.EquipmentRepository) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, movements: movements, equipment: equipment, now: time.Now}
}

// Record valida la entrada y, para salidas, que la cantidad no supere el stock leído.
// La verificación es last-read, no un bloqueo.
func (uc *MovementUseCase) Record(ctx context.Context, actor policy.Actor, in MovementInput) (*entity.Movement, error) {
	if err := policy.Authorize(actor, policy.CapRecordMovement); err != nil {
		return nil, err
	}
	if !entity.ValidMovementKind(in.Kind) {
		return nil, domain.Invalid("tipo", "deve ser entrada ou saida")
	}
	if in.Quantity < 1 {
		return nil, domain.Invalid("quantidade", "deve ser maior que zero")
	}
	if in.EquipmentID <= 0 {
		return nil, domain.Invalid("equipamento_id", "é obrigatório")
	}
	equipment, err := uc.equipment.GetByID(ctx, in.EquipmentID)
	if err != nil {
		return nil, domain.Gateway("obtener equipamento", err)
	}
	if equipment == nil {
		return nil, domain.ErrNotFound
	}
	if in.Kind == entity.MovementKindOut && in.Quantity > equipment.Quantity {
		return nil, &domain.InsufficientStockError{
			EquipmentID: equipment.ID,
			Requested:   in.Quantity,
			Available:   equipment.Quantity,
		}
	}
	movement := &entity.Movement{
		EquipmentID: equipment.ID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		Date:        uc.now(),
		UserID:      actor.UserID,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := uc.movements.Create(ctx, movement); err != nil {
		return nil, domain.Gateway("registrar movimentação", err)
	}
	return movement, nil
}

// ApplyToStock aplica un movimiento registrado a la quantidade del equipamento. La marca
// aplicado_em y la actualización condicional de quantidade van en la misma transacción, así que
// un movimiento se aplica una sola vez; repetirlo devuelve domain.ErrAlreadyApplied.
func (uc *MovementUseCase) ApplyToStock(ctx context.Context, actor policy.Actor, movementID int64) (*entity.Equipment, error) {
	if err := policy.Authorize(actor, policy.CapMutateEquipment); err != nil {
		return nil, err
	}
	movement, err := uc.movements.GetByID(ctx, movementID)
	if err != nil {
		return nil, domain.Gateway("obtener movimentação", err)
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	if movement.Applied() {
		return nil, domain.ErrAlreadyApplied
	}
	err = uc.txRunner.Run(ctx, func(equipmentRepo repository.EquipmentRepository, _ repository.CategoryRepository, movementRepo repository.MovementRepository) error {
		marked, err := movementRepo.MarkApplied(ctx, movement.ID, uc.now())
		if err != nil {
			return err
		}
		if !marked {
			return domain.ErrAlreadyApplied
		}
		_, err = equipmentRepo.AdjustQuantity(ctx, movement.EquipmentID, movement.Delta())
		return err
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			insufficient.Requested = movement.Quantity
			return nil, insufficient
		}
		return nil, domain.Gateway("aplicar movimentação al stock", err)
	}
	equipment, err := uc.equipment.GetByID(ctx, movement.EquipmentID)
	if err != nil {
		return nil, domain.Gateway("obtener equipamento", err)
	}
	if equipment == nil {
		return nil, domain.ErrNotFound
	}
	return equipment, nil
}

// List devuelve movimientos por fecha descendente. Limit se acota a [1, 500] con 50 por defecto.
func (uc *MovementUseCase) List(ctx context.Context, actor policy.Actor, filter repository.MovementFilter) ([]*entity.MovementDetail, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	if filter.Kind != "" && !entity.ValidMovementKind(filter.Kind) {
		return nil, domain.Invalid("tipo", "deve ser entrada ou saida")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Invalid("periodo", "data final anterior à inicial")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultMovementPage
	}
	if filter.Limit > maxMovementPage {
		filter.Limit = maxMovementPage
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Search = strings.TrimSpace(filter.Search)
	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, domain.Gateway("listar movimentações", err)
	}
	return list, nil
}
