package entity

import "time"

// Order es un registro de compra (tabla pedidos). Solo auditoría: no afecta el stock.
type Order struct {
	ID              int64
	Manufacturer    string
	AcquisitionDate time.Time
	TrackingCode    string
	CreatedBy       string
	CreatorName     string // join con profiles
	CreatedAt       time.Time
}
