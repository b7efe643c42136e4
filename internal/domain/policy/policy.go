// Package policy traduce roles en capacidades. Todas las decisiones de autorización pasan por
// HasCapability, tanto en el middleware HTTP como dentro de los casos de uso.
package policy

import (
	"fmt"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// Capability es una operación autorizable.
type Capability string

const (
	CapReadInventory    Capability = "read_inventory"
	CapRecordMovement   Capability = "record_movement"
	CapCreateOrder      Capability = "create_order"
	CapExportMovements  Capability = "export_movements"
	CapMutateEquipment  Capability = "mutate_equipment"
	CapDeleteEquipment  Capability = "delete_equipment"
	CapImportEquipment  Capability = "import_equipment"
	CapManageCategories Capability = "manage_categories"
	CapManageUsers      Capability = "manage_users"
)

var baseline = []Capability{CapReadInventory, CapRecordMovement, CapCreateOrder, CapExportMovements}

// grants es la tabla rol → capacidades. Un rol nuevo solo agrega una entrada aquí.
var grants = map[string]map[Capability]struct{}{
	entity.RoleUser: set(baseline...),
	entity.RoleAdmin: set(append([]Capability{
		CapMutateEquipment, CapDeleteEquipment, CapImportEquipment,
		CapManageCategories, CapManageUsers,
	}, baseline...)...),
}

func set(caps ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

// HasCapability reporta si role tiene la capacidad cap. Un rol desconocido no tiene ninguna.
func HasCapability(role string, cap Capability) bool {
	caps, ok := grants[role]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}

// Capabilities lista las capacidades de role (para GET /api/me).
func Capabilities(role string) []Capability {
	all := []Capability{
		CapReadInventory, CapRecordMovement, CapCreateOrder, CapExportMovements,
		CapMutateEquipment, CapDeleteEquipment, CapImportEquipment, CapManageCategories, CapManageUsers,
	}
	out := make([]Capability, 0, len(all))
	for _, c := range all {
		if HasCapability(role, c) {
			out = append(out, c)
		}
	}
	return out
}

func CanMutateEquipment(role string) bool  { return HasCapability(role, CapMutateEquipment) }
func CanDeleteEquipment(role string) bool  { return HasCapability(role, CapDeleteEquipment) }
func CanManageUsers(role string) bool      { return HasCapability(role, CapManageUsers) }
func CanManageCategories(role string) bool { return HasCapability(role, CapManageCategories) }

// Actor es la identidad que ejecuta una operación. Se pasa explícitamente a cada caso de uso.
type Actor struct {
	UserID string
	Role   string
}

// Authorize devuelve domain.ErrUnauthorized si no hay identidad y domain.ErrForbidden si
// el rol no tiene la capacidad.
func Authorize(actor Actor, cap Capability) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	if !HasCapability(actor.Role, cap) {
		return fmt.Errorf("%w: %s requiere %s", domain.ErrForbidden, actor.Role, cap)
	}
	return nil
}
