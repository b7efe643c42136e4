package repository

import (
	"context"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// GetByID y GetByName devuelven (nil, nil) si no existe.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	// GetByName compara sin distinguir mayúsculas/minúsculas.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}
