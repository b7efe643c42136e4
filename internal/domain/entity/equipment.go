package entity

import "time"

// Equipment representa un equipamento del inventario (tabla equipamentos).
// SerialNumber es único global; Quantity es el stock actual y se mantiene de forma
// independiente de los movimientos registrados.
type Equipment struct {
	ID              int64
	Name            string
	SerialNumber    string
	CategoryID      int64
	CategoryName    string // solo lectura, viene del join con categorias
	Quantity        int
	AcquisitionDate time.Time
	Description     string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
