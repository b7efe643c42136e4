package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

// EquipmentRepo implementación del puerto EquipmentRepository sobre la tabla equipamentos.
type EquipmentRepo struct {
	q Querier
}

// NewEquipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentRepository(q Querier) *EquipmentRepo {
	return &EquipmentRepo{q: q}
}

const equipmentSelect = `
	SELECT e.id, e.nome, e.num_serie, e.categoria_id, COALESCE(c.nome, ''), e.quantidade,
	       e.data_aquisicao, e.descricao, e.created_at, e.updated_at
	FROM equipamentos e
	LEFT JOIN categorias c ON c.id = e.categoria_id`

func scanEquipment(row pgx.Row) (*entity.Equipment, error) {
	var e entity.Equipment
	var desc *string
	if err := row.Scan(&e.ID, &e.Name, &e.SerialNumber, &e.CategoryID, &e.CategoryName, &e.Quantity,
		&e.AcquisitionDate, &desc, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Description = deref(desc)
	return &e, nil
}

// Create persiste el equipamento. El índice único de num_serie se traduce a DuplicateSerial.
func (r *EquipmentRepo) Create(ctx context.Context, e *entity.Equipment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO equipamentos (nome, num_serie, categoria_id, quantidade, data_aquisicao, descricao)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		e.Name, e.SerialNumber, e.CategoryID, e.Quantity, e.AcquisitionDate, nullIfEmpty(e.Description),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateSerialError{Serials: []string{e.SerialNumber}}
		}
		return fmt.Errorf("insert equipamento: %w", err)
	}
	return nil
}

// GetByID obtiene un equipamento por ID con el nombre de su categoria.
func (r *EquipmentRepo) GetByID(ctx context.Context, id int64) (*entity.Equipment, error) {
	e, err := scanEquipment(r.q.QueryRow(ctx, equipmentSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipamento: %w", err)
	}
	return e, nil
}

// GetBySerial obtiene un equipamento por número de serie.
func (r *EquipmentRepo) GetBySerial(ctx context.Context, serial string) (*entity.Equipment, error) {
	e, err := scanEquipment(r.q.QueryRow(ctx, equipmentSelect+` WHERE e.num_serie = $1`, serial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipamento por num_serie: %w", err)
	}
	return e, nil
}

// ExistsBySerial reporta si otro equipamento ya usa serial.
func (r *EquipmentRepo) ExistsBySerial(ctx context.Context, serial string, excludeID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM equipamentos WHERE num_serie = $1 AND id <> $2)`,
		serial, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists num_serie: %w", err)
	}
	return exists, nil
}

// ListExistingSerials resuelve en una consulta cuáles de serials ya existen.
func (r *EquipmentRepo) ListExistingSerials(ctx context.Context, serials []string) ([]string, error) {
	if len(serials) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT num_serie FROM equipamentos WHERE num_serie = ANY($1) ORDER BY num_serie`, serials)
	if err != nil {
		return nil, fmt.Errorf("list num_serie existentes: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan num_serie: %w", err)
	}
	return found, nil
}

// ExistsByCategory reporta si algún equipamento referencia la categoria.
func (r *EquipmentRepo) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM equipamentos WHERE categoria_id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists equipamento por categoria: %w", err)
	}
	return exists, nil
}

// List lista equipamentos ordenados por nombre con filtro opcional de categoria y búsqueda.
func (r *EquipmentRepo) List(ctx context.Context, filter repository.EquipmentFilter) ([]*entity.Equipment, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("e.categoria_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, likePattern(s))
		where = append(where, fmt.Sprintf("(e.nome ILIKE $%d OR e.num_serie ILIKE $%d)", len(args), len(args)))
	}
	query := equipmentSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY e.nome, e.id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list equipamentos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipamento: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update reescribe los campos editables y updated_at.
func (r *EquipmentRepo) Update(ctx context.Context, e *entity.Equipment) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE equipamentos
		SET nome = $2, num_serie = $3, categoria_id = $4, quantidade = $5, data_aquisicao = $6,
		    descricao = $7, updated_at = $8
		WHERE id = $1`,
		e.ID, e.Name, e.SerialNumber, e.CategoryID, e.Quantity, e.AcquisitionDate,
		nullIfEmpty(e.Description), e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateSerialError{Serials: []string{e.SerialNumber}}
		}
		return fmt.Errorf("update equipamento: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un equipamento por ID. Los movimientos conservan su equipamento_id.
func (r *EquipmentRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM equipamentos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete equipamento: %w", err)
	}
	return nil
}

// AdjustQuantity aplica delta solo si el resultado no queda negativo. Si ninguna fila cambia
// se relee el stock para distinguir NotFound de InsufficientStock.
func (r *EquipmentRepo) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx, `
		UPDATE equipamentos SET quantidade = quantidade + $2, updated_at = now()
		WHERE id = $1 AND quantidade + $2 >= 0
		RETURNING quantidade`, id, delta,
	).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("ajustar quantidade: %w", err)
	}
	err = r.q.QueryRow(ctx, `SELECT quantidade FROM equipamentos WHERE id = $1`, id).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("leer quantidade: %w", err)
	}
	return qty, &domain.InsufficientStockError{EquipmentID: id, Requested: -delta, Available: qty}
}
