package entity

import "time"

// Tipos de movimentação (valores de la columna tipo).
const (
	MovementKindIn  = "entrada"
	MovementKindOut = "saida"
)

// ValidMovementKind reporta si kind es entrada o saida.
func ValidMovementKind(kind string) bool {
	return kind == MovementKindIn || kind == MovementKindOut
}

// Movement representa una entrada o salida registrada contra un equipamento.
type Movement struct {
	ID          int64
	EquipmentID int64
	Kind        string
	Quantity    int // siempre positivo; el signo lo da Kind
	Date        time.Time
	UserID      string
	Notes       string
	AppliedAt   *time.Time // aplicado_em; nil mientras no se aplicó al stock
	CreatedAt   time.Time
}

// Applied reporta si el movimiento ya se aplicó a la quantidade del equipamento.
func (m *Movement) Applied() bool { return m.AppliedAt != nil }

// Delta devuelve la variación de stock que produciría el movimiento.
func (m *Movement) Delta() int {
	if m.Kind == MovementKindOut {
		return -m.Quantity
	}
	return m.Quantity
}

// MovementDetail es un Movement con los nombres resueltos por join (listados y exportación).
type MovementDetail struct {
	Movement
	EquipmentName string
	SerialNumber  string
	UserName      string
}
