package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository     = (*OrderRepo)(nil)
	_ repository.ProfileRepository   = (*ProfileRepo)(nil)
	_ repository.IdentityDirectory   = (*IdentityDirectory)(nil)
	_ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)
)

// OrderRepo pedidos en memoria.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.nextID("pedidos")
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.s.now()
	}
	stored := *o
	stored.CreatorName = ""
	r.s.orders[o.ID] = stored
	return nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	manufacturer := strings.ToLower(f.Manufacturer)
	search := strings.ToLower(f.Search)
	var list []*entity.Order
	for _, o := range r.s.orders {
		if manufacturer != "" && !strings.Contains(strings.ToLower(o.Manufacturer), manufacturer) {
			continue
		}
		if f.From != nil && o.AcquisitionDate.Before(*f.From) {
			continue
		}
		if f.To != nil && o.AcquisitionDate.After(*f.To) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.TrackingCode), search) &&
			!strings.Contains(strings.ToLower(o.Manufacturer), search) {
			continue
		}
		o := o
		if p, ok := r.s.profiles[o.CreatedBy]; ok {
			o.CreatorName = p.Name
		}
		list = append(list, &o)
	}
	sort.SliceStable(list, func(i, j int) bool {
		less := orderLess(list[i], list[j], f.SortField)
		if f.Ascending {
			return less
		}
		return orderLess(list[j], list[i], f.SortField)
	})
	total := len(list)
	return page(list, f.Limit, f.Offset), total, nil
}

func orderLess(a, b *entity.Order, field string) bool {
	switch field {
	case repository.OrderSortManufacturer:
		return a.Manufacturer < b.Manufacturer
	case repository.OrderSortAcquisitionDate:
		return a.AcquisitionDate.Before(b.AcquisitionDate)
	case repository.OrderSortTrackingCode:
		return a.TrackingCode < b.TrackingCode
	default:
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

// ProfileRepo perfiles en memoria.
type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) GetByID(_ context.Context, id string) (*entity.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProfileRepo) List(_ context.Context) ([]*entity.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.UserProfile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *ProfileRepo) UpdateRole(_ context.Context, id, role string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = &updatedAt
	r.s.profiles[id] = p
	return nil
}

// IdentityDirectory emails de las identidades registradas con AddIdentity.
type IdentityDirectory struct{ s *Store }

func (d *IdentityDirectory) ListEmails(_ context.Context) (map[string]string, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	out := make(map[string]string, len(d.s.emails))
	for k, v := range d.s.emails {
		out[k] = v
	}
	return out, nil
}

// AnalyticsRepo agregados del dashboard en memoria.
type AnalyticsRepo struct{ s *Store }

func (r *AnalyticsRepo) TotalStock(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, e := range r.s.equipment {
		total += int64(e.Quantity)
	}
	return total, nil
}

func (r *AnalyticsRepo) MovementTotals(_ context.Context) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var in, out int64
	for _, m := range r.s.movements {
		if m.Kind == entity.MovementKindIn {
			in += int64(m.Quantity)
		} else {
			out += int64(m.Quantity)
		}
	}
	return in, out, nil
}

func (r *AnalyticsRepo) MonthlyMovementTotals(_ context.Context, from time.Time, loc *time.Location) ([]repository.MonthlyMovementTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	type key struct {
		month time.Time
		kind  string
	}
	sums := map[key]int64{}
	for _, m := range r.s.movements {
		if m.Date.Before(from) {
			continue
		}
		d := m.Date.In(loc)
		k := key{month: time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc), kind: m.Kind}
		sums[k] += int64(m.Quantity)
	}
	out := make([]repository.MonthlyMovementTotal, 0, len(sums))
	for k, q := range sums {
		out = append(out, repository.MonthlyMovementTotal{Month: k.month, Kind: k.kind, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}
