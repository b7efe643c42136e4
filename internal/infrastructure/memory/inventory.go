package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.EquipmentRepository = (*EquipmentRepo)(nil)
	_ repository.MovementRepository  = (*MovementRepo)(nil)
)

// CategoryRepo categorias en memoria.
type CategoryRepo struct {
	s  *Store
	tx *txLog
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID("categorias")
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.now()
	}
	r.s.categories[c.ID] = *c
	id := c.ID
	r.tx.record(func() { delete(r.s.categories, id) })
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *entity.Category
	for _, c := range r.s.categories {
		if strings.EqualFold(c.Name, name) && (found == nil || c.ID < found.ID) {
			c := c
			found = &c
		}
	}
	return found, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.categories[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.categories[c.ID] = *c
	r.tx.record(func() { r.s.categories[prev.ID] = prev })
	return nil
}

// Delete respeta la FK equipamentos.categoria_id como lo haría PostgreSQL.
func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.equipment {
		if e.CategoryID == id {
			return &domain.ReferentialConflictError{Resource: "categoria", Dependents: "equipamentos"}
		}
	}
	if prev, ok := r.s.categories[id]; ok {
		delete(r.s.categories, id)
		r.tx.record(func() { r.s.categories[id] = prev })
	}
	return nil
}

// EquipmentRepo equipamentos en memoria; aplica el índice único de num_serie.
type EquipmentRepo struct {
	s  *Store
	tx *txLog
}

func (r *EquipmentRepo) withCategory(e entity.Equipment) *entity.Equipment {
	if c, ok := r.s.categories[e.CategoryID]; ok {
		e.CategoryName = c.Name
	}
	return &e
}

func (r *EquipmentRepo) serialTaken(serial string, excludeID int64) bool {
	for _, e := range r.s.equipment {
		if e.SerialNumber == serial && e.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *EquipmentRepo) Create(_ context.Context, e *entity.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.serialTaken(e.SerialNumber, 0) {
		return &domain.DuplicateSerialError{Serials: []string{e.SerialNumber}}
	}
	if _, ok := r.s.categories[e.CategoryID]; !ok {
		return domain.Gateway("insert equipamento", fmt.Errorf("categoria_id %d viola la llave foránea", e.CategoryID))
	}
	e.ID = r.s.nextID("equipamentos")
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.s.now()
	}
	stored := *e
	stored.CategoryName = ""
	r.s.equipment[e.ID] = stored
	r.tx.record(func() { delete(r.s.equipment, stored.ID) })
	return nil
}

func (r *EquipmentRepo) GetByID(_ context.Context, id int64) (*entity.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.equipment[id]
	if !ok {
		return nil, nil
	}
	return r.withCategory(e), nil
}

func (r *EquipmentRepo) GetBySerial(_ context.Context, serial string) (*entity.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.equipment {
		if e.SerialNumber == serial {
			return r.withCategory(e), nil
		}
	}
	return nil, nil
}

func (r *EquipmentRepo) ExistsBySerial(_ context.Context, serial string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.serialTaken(serial, excludeID), nil
}

func (r *EquipmentRepo) ListExistingSerials(_ context.Context, serials []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []string
	for _, serial := range serials {
		if r.serialTaken(serial, 0) {
			found = append(found, serial)
		}
	}
	return found, nil
}

func (r *EquipmentRepo) ExistsByCategory(_ context.Context, categoryID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.equipment {
		if e.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *EquipmentRepo) List(_ context.Context, filter repository.EquipmentFilter) ([]*entity.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	var list []*entity.Equipment
	for _, e := range r.s.equipment {
		if filter.CategoryID != 0 && e.CategoryID != filter.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.SerialNumber), search) {
			continue
		}
		list = append(list, r.withCategory(e))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *EquipmentRepo) Update(_ context.Context, e *entity.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.equipment[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.serialTaken(e.SerialNumber, e.ID) {
		return &domain.DuplicateSerialError{Serials: []string{e.SerialNumber}}
	}
	stored := *e
	stored.CategoryName = ""
	r.s.equipment[e.ID] = stored
	r.tx.record(func() { r.s.equipment[prev.ID] = prev })
	return nil
}

func (r *EquipmentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if prev, ok := r.s.equipment[id]; ok {
		delete(r.s.equipment, id)
		r.tx.record(func() { r.s.equipment[id] = prev })
	}
	return nil
}

func (r *EquipmentRepo) AdjustQuantity(_ context.Context, id int64, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.equipment[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if e.Quantity+delta < 0 {
		return e.Quantity, &domain.InsufficientStockError{EquipmentID: id, Requested: -delta, Available: e.Quantity}
	}
	e.Quantity += delta
	now := r.s.now()
	e.UpdatedAt = &now
	r.s.equipment[id] = e
	// inverso relativo: conserva ajustes concurrentes de otros callers
	r.tx.record(func() {
		if cur, ok := r.s.equipment[id]; ok {
			cur.Quantity -= delta
			r.s.equipment[id] = cur
		}
	})
	return e.Quantity, nil
}

// MovementRepo movimentações en memoria.
type MovementRepo struct {
	s  *Store
	tx *txLog
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.equipment[m.EquipmentID]; !ok {
		return domain.Gateway("insert movimentacao", fmt.Errorf("equipamento_id %d viola la llave foránea", m.EquipmentID))
	}
	m.ID = r.s.nextID("movimentacoes")
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.s.now()
	}
	r.s.movements[m.ID] = *m
	id := m.ID
	r.tx.record(func() { delete(r.s.movements, id) })
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepo) MarkApplied(_ context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok || m.AppliedAt != nil {
		return false, nil
	}
	m.AppliedAt = &at
	r.s.movements[id] = m
	r.tx.record(func() {
		if cur, ok := r.s.movements[id]; ok {
			cur.AppliedAt = nil
			r.s.movements[id] = cur
		}
	})
	return true, nil
}

func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.MovementDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	var list []*entity.MovementDetail
	for _, m := range r.s.movements {
		if filter.From != nil && m.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Date.After(*filter.To) {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		if filter.EquipmentID != 0 && m.EquipmentID != filter.EquipmentID {
			continue
		}
		d := &entity.MovementDetail{Movement: m}
		if e, ok := r.s.equipment[m.EquipmentID]; ok {
			d.EquipmentName = e.Name
			d.SerialNumber = e.SerialNumber
		}
		if p, ok := r.s.profiles[m.UserID]; ok {
			d.UserName = p.Name
		}
		if search != "" && !strings.Contains(strings.ToLower(d.EquipmentName), search) {
			continue
		}
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return page(list, filter.Limit, filter.Offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
