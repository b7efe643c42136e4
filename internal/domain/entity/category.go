package entity

import "time"

// Category agrupa equipamentos (tabla categorias). Todo Equipment pertenece a una.
type Category struct {
	ID          int64
	Name        string
	Description string // vacío = NULL
	CreatedAt   time.Time
}
