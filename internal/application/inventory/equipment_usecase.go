package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// EquipmentInput datos de alta de un equipamento.
// AcquisitionDate cero se reemplaza por la fecha de hoy.
type EquipmentInput struct {
	Name            string
	SerialNumber    string
	CategoryID      int64
	Quantity        int
	AcquisitionDate time.Time
	Description     string
}

// EquipmentPatch actualización parcial; nil = sin cambios.
type EquipmentPatch struct {
	Name            *string
	SerialNumber    *string
	CategoryID      *int64
	Quantity        *int
	AcquisitionDate *time.Time
	Description     *string
}

// EquipmentUseCase casos de uso de equipamentos.
type EquipmentUseCase struct {
	txRunner   TxRunner
	equipment  repository.EquipmentRepository
	categories repository.CategoryRepository
}

// NewEquipmentUseCase construye el caso de uso.
func NewEquipmentUseCase(
	txRunner TxRunner,
	equipment repository.EquipmentRepository,
	categories repository.CategoryRepository,
) *EquipmentUseCase {
	return &EquipmentUseCase{
		txRunner:   txRunner,
		equipment:  equipment,
		categories: categories,
	}
}

// Create valida, verifica que el número de serie no exista y persiste el equipamento.
// El índice único de num_serie sigue siendo la garantía final ante altas concurrentes.
func (uc *EquipmentUseCase) Create(ctx context.Context, actor policy.Actor, in EquipmentInput) (*entity.Equipment, error) {
	if err := policy.Authorize(actor, policy.CapMutateEquipment); err != nil {
		return nil, err
	}
	equipment, err := uc.build(ctx, uc.categories, in, map[int64]*entity.Category{})
	if err != nil {
		return nil, err
	}
	exists, err := uc.equipment.ExistsBySerial(ctx, equipment.SerialNumber, 0)
	if err != nil {
		return nil, domain.Gateway("verificar número de serie", err)
	}
	if exists {
		return nil, &domain.DuplicateSerialError{Serials: []string{equipment.SerialNumber}}
	}
	if err := uc.equipment.Create(ctx, equipment); err != nil {
		return nil, domain.Gateway("crear equipamento", err)
	}
	return equipment, nil
}

// BulkCreate da de alta el lote completo o nada. Rechaza el lote si un número de serie se
// repite dentro del lote o ya existe en la base (una sola consulta para todos).
func (uc *EquipmentUseCase) BulkCreate(ctx context.Context, actor policy.Actor, items []EquipmentInput) ([]*entity.Equipment, error) {
	if err := policy.Authorize(actor, policy.CapMutateEquipment); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.Invalid("itens", "lote vazio")
	}
	known := map[int64]*entity.Category{}
	batch := make([]*entity.Equipment, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	var repeated []string
	for _, in := range items {
		equipment, err := uc.build(ctx, uc.categories, in, known)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[equipment.SerialNumber]; dup {
			repeated = append(repeated, equipment.SerialNumber)
		}
		seen[equipment.SerialNumber] = struct{}{}
		batch = append(batch, equipment)
	}
	if len(repeated) > 0 {
		return nil, &domain.DuplicateSerialError{Serials: repeated}
	}

	serials := make([]string, 0, len(batch))
	for _, e := range batch {
		serials = append(serials, e.SerialNumber)
	}
	existing, err := uc.equipment.ListExistingSerials(ctx, serials)
	if err != nil {
		return nil, domain.Gateway("verificar números de serie", err)
	}
	if len(existing) > 0 {
		return nil, &domain.DuplicateSerialError{Serials: existing}
	}

	err = uc.txRunner.Run(ctx, func(equipmentRepo repository.EquipmentRepository, _ repository.CategoryRepository, _ repository.MovementRepository) error {
		for _, e := range batch {
			if err := equipmentRepo.Create(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for _, e := range batch {
			e.ID = 0
		}
		return nil, domain.Gateway("alta por lote", err)
	}
	return batch, nil
}

// Update aplica los campos presentes en patch. Si cambia el número de serie vuelve a
// verificar duplicados excluyendo el propio equipamento.
func (uc *EquipmentUseCase) Update(ctx context.Context, actor policy.Actor, id int64, patch EquipmentPatch) (*entity.Equipment, error) {
	if err := policy.Authorize(actor, policy.CapMutateEquipment); err != nil {
		return nil, err
	}
	equipment, err := uc.equipment.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Gateway("obtener equipamento", err)
	}
	if equipment == nil {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Invalid("nome", "é obrigatório")
		}
		equipment.Name = name
	}
	if patch.SerialNumber != nil {
		serial := strings.TrimSpace(*patch.SerialNumber)
		if serial == "" {
			return nil, domain.Invalid("num_serie", "é obrigatório")
		}
		if serial != equipment.SerialNumber {
			exists, err := uc.equipment.ExistsBySerial(ctx, serial, id)
			if err != nil {
				return nil, domain.Gateway("verificar número de serie", err)
			}
			if exists {
				return nil, &domain.DuplicateSerialError{Serials: []string{serial}}
			}
		}
		equipment.SerialNumber = serial
	}
	if patch.CategoryID != nil && *patch.CategoryID != equipment.CategoryID {
		category, err := uc.requireCategory(ctx, uc.categories, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		equipment.CategoryID = category.ID
		equipment.CategoryName = category.Name
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, domain.Invalid("quantidade", "não pode ser negativa")
		}
		equipment.Quantity = *patch.Quantity
	}
	if patch.AcquisitionDate != nil && !patch.AcquisitionDate.IsZero() {
		equipment.AcquisitionDate = *patch.AcquisitionDate
	}
	if patch.Description != nil {
		equipment.Description = strings.TrimSpace(*patch.Description)
	}
	now := time.Now()
	equipment.UpdatedAt = &now
	if err := uc.equipment.Update(ctx, equipment); err != nil {
		return nil, domain.Gateway("actualizar equipamento", err)
	}
	return equipment, nil
}

// Delete elimina el equipamento sin tocar sus movimientos.
func (uc *EquipmentUseCase) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if err := policy.Authorize(actor, policy.CapDeleteEquipment); err != nil {
		return err
	}
	equipment, err := uc.equipment.GetByID(ctx, id)
	if err != nil {
		return domain.Gateway("obtener equipamento", err)
	}
	if equipment == nil {
		return domain.ErrNotFound
	}
	return domain.Gateway("eliminar equipamento", uc.equipment.Delete(ctx, id))
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *EquipmentUseCase) GetByID(ctx context.Context, actor policy.Actor, id int64) (*entity.Equipment, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	equipment, err := uc.equipment.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Gateway("obtener equipamento", err)
	}
	if equipment == nil {
		return nil, domain.ErrNotFound
	}
	return equipment, nil
}

// GetBySerial devuelve (nil, nil) si no existe.
func (uc *EquipmentUseCase) GetBySerial(ctx context.Context, actor policy.Actor, serial string) (*entity.Equipment, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	equipment, err := uc.equipment.GetBySerial(ctx, strings.TrimSpace(serial))
	if err != nil {
		return nil, domain.Gateway("obtener equipamento por serie", err)
	}
	return equipment, nil
}

// List devuelve los equipamentos ordenados por nombre con el nombre de su categoria.
func (uc *EquipmentUseCase) List(ctx context.Context, actor policy.Actor, filter repository.EquipmentFilter) ([]*entity.Equipment, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	filter.Search = strings.TrimSpace(filter.Search)
	list, err := uc.equipment.List(ctx, filter)
	if err != nil {
		return nil, domain.Gateway("listar equipamentos", err)
	}
	return list, nil
}

// build valida la entrada y arma la entidad. known memoriza las categorias ya verificadas.
func (uc *EquipmentUseCase) build(
	ctx context.Context,
	categories repository.CategoryRepository,
	in EquipmentInput,
	known map[int64]*entity.Category,
) (*entity.Equipment, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nome", "é obrigatório")
	}
	serial := strings.TrimSpace(in.SerialNumber)
	if serial == "" {
		return nil, domain.Invalid("num_serie", "é obrigatório")
	}
	if in.Quantity < 1 {
		return nil, domain.Invalid("quantidade", "deve ser maior que zero")
	}
	category, ok := known[in.CategoryID]
	if !ok {
		var err error
		category, err = uc.requireCategory(ctx, categories, in.CategoryID)
		if err != nil {
			return nil, err
		}
		known[in.CategoryID] = category
	}
	acquired := in.AcquisitionDate
	if acquired.IsZero() {
		acquired = Today()
	}
	return &entity.Equipment{
		Name:            name,
		SerialNumber:    serial,
		CategoryID:      category.ID,
		CategoryName:    category.Name,
		Quantity:        in.Quantity,
		AcquisitionDate: acquired,
		Description:     strings.TrimSpace(in.Description),
	}, nil
}

func (uc *EquipmentUseCase) requireCategory(ctx context.Context, categories repository.CategoryRepository, id int64) (*entity.Category, error) {
	if id <= 0 {
		return nil, domain.Invalid("categoria_id", "é obrigatória")
	}
	category, err := categories.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Gateway("obtener categoria", err)
	}
	if category == nil {
		return nil, domain.Invalid("categoria_id", "não existe")
	}
	return category, nil
}

// Today devuelve el día calendario actual como medianoche UTC, la misma forma que tienen las
// fechas AAAA-MM-DD parseadas. Es la data_aquisicao por defecto.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
