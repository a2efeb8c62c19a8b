package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, kind, stock_entry_id, product_id, size_id, warehouse_id,
	quantity, quantity_before, quantity_after, reason, reference, user_id, unit_cost, created_at`

// MovementRepo kardex sobre la tabla stock_movements (solo INSERT y SELECT).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el registro y asigna el ID generado.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (kind, stock_entry_id, product_id, size_id, warehouse_id,
			quantity, quantity_before, quantity_after, reason, reference, user_id, unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		string(m.Kind), m.StockEntryID, m.Key.ProductID, m.Key.SizeID, m.Key.WarehouseID,
		m.Quantity, m.QuantityBefore, m.QuantityAfter, m.Reason, m.Reference, m.UserID, m.UnitCost, m.CreatedAt,
	).Scan(&m.ID)
	return persistence("insertar movimiento", err)
}

// ListForEntry kardex de una posición en orden de inserción.
func (r *MovementRepo) ListForEntry(ctx context.Context, stockEntryID int64) ([]*entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE stock_entry_id = $1 ORDER BY id`, stockEntryID)
}

// ListForSale débitos y créditos de anulación de un folio.
func (r *MovementRepo) ListForSale(ctx context.Context, folio string) ([]*entity.Movement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements
		WHERE reference = $1 AND kind IN ('SALE_DEBIT', 'SALE_VOID_CREDIT')
		ORDER BY id`, folio)
}

// ListByReference todos los registros con la referencia dada (p. ej. ambas patas de un traspaso).
func (r *MovementRepo) ListByReference(ctx context.Context, reference string) ([]*entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE reference = $1 ORDER BY id`, reference)
}

func (r *MovementRepo) list(ctx context.Context, sql string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, persistence("listar movimientos", err)
	}
	defer rows.Close()

	out := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, persistence("listar movimientos", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("listar movimientos", err)
	}
	return out, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m    entity.Movement
		kind string
	)
	err := row.Scan(&m.ID, &kind, &m.StockEntryID, &m.Key.ProductID, &m.Key.SizeID, &m.Key.WarehouseID,
		&m.Quantity, &m.QuantityBefore, &m.QuantityAfter, &m.Reason, &m.Reference, &m.UserID, &m.UnitCost, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}
