// Package memory implementa los puertos de persistencia en memoria. Lo usan los tests de los
// casos de uso y el modo STORAGE_DRIVER=memory para desarrollo local.
//
// Todas las operaciones se serializan con un único mutex; las filas se guardan por valor
// para que ningún caller comparta punteros con el store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// Store contiene todas las tablas.
type Store struct {
	mu         sync.Mutex
	categories map[int64]entity.Category
	equipment  map[int64]entity.Equipment
	movements  map[int64]entity.Movement
	orders     map[int64]entity.Order
	profiles   map[string]entity.UserProfile
	emails     map[string]string
	seq        map[string]int64
	now        func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		categories: map[int64]entity.Category{},
		equipment:  map[int64]entity.Equipment{},
		movements:  map[int64]entity.Movement{},
		orders:     map[int64]entity.Order{},
		profiles:   map[string]entity.UserProfile{},
		emails:     map[string]string{},
		seq:        map[string]int64{},
		now:        time.Now,
	}
}

// SetClock reemplaza el reloj usado para CreatedAt (tests).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddIdentity registra una identidad del proveedor con su perfil de aplicación.
func (s *Store) AddIdentity(profile entity.UserProfile, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now()
	}
	profile.Email = ""
	s.profiles[profile.ID] = profile
	if email != "" {
		s.emails[profile.ID] = email
	}
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Categories devuelve el repositorio de categorias.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Equipment devuelve el repositorio de equipamentos.
func (s *Store) Equipment() *EquipmentRepo { return &EquipmentRepo{s: s} }

// Movements devuelve el repositorio de movimentações.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Orders devuelve el repositorio de pedidos.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Profiles devuelve el repositorio de perfiles.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

// Identities devuelve el directorio de identidades.
func (s *Store) Identities() *IdentityDirectory { return &IdentityDirectory{s: s} }

// Analytics devuelve el repositorio de consultas del dashboard.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// txLog acumula las operaciones inversas de las escrituras hechas con repos atados a una
// transacción. Las secuencias no se rebobinan, igual que en PostgreSQL.
type txLog struct {
	undo []func()
}

// record se llama con s.mu tomado. Un log nil (repo fuera de transacción) no registra nada.
func (l *txLog) record(fn func()) {
	if l != nil {
		l.undo = append(l.undo, fn)
	}
}

func (s *Store) rollback(l *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(l.undo) - 1; i >= 0; i-- {
		l.undo[i]()
	}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner emula una transacción: si fn falla deshace solo las escrituras hechas con los repos
// que recibió. Las escrituras de otros callers se conservan; no hay aislamiento de lectura.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn y deshace sus cambios si devuelve error.
func (r *TxRunner) Run(_ context.Context, fn func(
	equipmentRepo repository.EquipmentRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.MovementRepository,
) error) error {
	tx := &txLog{}
	err := fn(
		&EquipmentRepo{s: r.s, tx: tx},
		&CategoryRepo{s: r.s, tx: tx},
		&MovementRepo{s: r.s, tx: tx},
	)
	if err != nil {
		r.s.rollback(tx)
		return err
	}
	return nil
}
