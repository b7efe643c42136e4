package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// CategoryInput datos de alta de una categoria.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryPatch actualización parcial; nil = sin cambios.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// CategoryUseCase casos de uso de categorias.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	equipment  repository.EquipmentRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categories repository.CategoryRepository, equipment repository.EquipmentRepository) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, equipment: equipment}
}

// Create da de alta una categoria. El nombre es obligatorio.
func (uc *CategoryUseCase) Create(ctx context.Context, actor policy.Actor, in CategoryInput) (*entity.Category, error) {
	if err := policy.Authorize(actor, policy.CapManageCategories); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nome", "é obrigatório")
	}
	category := &entity.Category{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, domain.Gateway("crear categoria", err)
	}
	return category, nil
}

// Update aplica los campos presentes en patch.
func (uc *CategoryUseCase) Update(ctx context.Context, actor policy.Actor, id int64, patch CategoryPatch) (*entity.Category, error) {
	if err := policy.Authorize(actor, policy.CapManageCategories); err != nil {
		return nil, err
	}
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Gateway("obtener categoria", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Invalid("nome", "é obrigatório")
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = strings.TrimSpace(*patch.Description)
	}
	if err := uc.categories.Update(ctx, category); err != nil {
		return nil, domain.Gateway("actualizar categoria", err)
	}
	return category, nil
}

// Delete elimina la categoria solo si ningún equipamento la referencia.
func (uc *CategoryUseCase) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if err := policy.Authorize(actor, policy.CapManageCategories); err != nil {
		return err
	}
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return domain.Gateway("obtener categoria", err)
	}
	if category == nil {
		return domain.ErrNotFound
	}
	inUse, err := uc.equipment.ExistsByCategory(ctx, id)
	if err != nil {
		return domain.Gateway("verificar equipamentos de la categoria", err)
	}
	if inUse {
		return &domain.ReferentialConflictError{Resource: "categoria", Dependents: "equipamentos"}
	}
	return domain.Gateway("eliminar categoria", uc.categories.Delete(ctx, id))
}

// List devuelve todas las categorias ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context, actor policy.Actor) ([]*entity.Category, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, domain.Gateway("listar categorias", err)
	}
	return list, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, actor policy.Actor, id int64) (*entity.Category, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Gateway("obtener categoria", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

// ResolveByName busca sin distinguir mayúsculas. Devuelve (nil, nil) si no existe.
func (uc *CategoryUseCase) ResolveByName(ctx context.Context, actor policy.Actor, name string) (*entity.Category, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("categoria", "é obrigatória")
	}
	category, err := uc.categories.GetByName(ctx, name)
	if err != nil {
		return nil, domain.Gateway("buscar categoria por nombre", err)
	}
	return category, nil
}
