package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, product_id, size_id, warehouse_id, quantity, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// La llave (product_id, size_id, warehouse_id) es UNIQUE NULLS NOT DISTINCT: NULL es un valor.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetOrCreate inserta la posición en cero si no existe y la devuelve. Con inserciones concurrentes
// la segunda espera a la primera y su ON CONFLICT no hace nada; ambas leen la misma fila.
func (r *StockRepo) GetOrCreate(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_entries (product_id, size_id, warehouse_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, 0, now(), now())
		ON CONFLICT (product_id, size_id, warehouse_id) DO NOTHING`,
		key.ProductID, key.SizeID, key.WarehouseID,
	)
	if err != nil {
		return nil, persistence("crear posición de stock", err)
	}
	e, err := r.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, persistence("crear posición de stock", fmt.Errorf("posición %s no visible tras insertar", key))
	}
	return e, nil
}

// GetByID obtiene una posición por id; nil si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id int64) (*entity.StockEntry, error) {
	return r.getOne(ctx, "obtener stock", `SELECT `+stockColumns+` FROM stock_entries WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.StockEntry, error) {
	return r.getOne(ctx, "bloquear stock", `SELECT `+stockColumns+` FROM stock_entries WHERE id = $1 FOR UPDATE`, id)
}

// LockByIDs bloquea las filas en orden ascendente de id para que operaciones opuestas no se bloqueen mutuamente.
func (r *StockRepo) LockByIDs(ctx context.Context, ids []int64) (map[int64]*entity.StockEntry, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rows, err := r.q.Query(ctx, `
		SELECT `+stockColumns+`
		FROM stock_entries WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, sorted)
	if err != nil {
		return nil, persistence("bloquear stock", err)
	}
	list, err := scanEntries(rows)
	if err != nil {
		return nil, persistence("bloquear stock", err)
	}
	out := make(map[int64]*entity.StockEntry, len(list))
	for _, e := range list {
		out[e.ID] = e
	}
	return out, nil
}

// Find busca la posición exacta de key; nil si no existe.
func (r *StockRepo) Find(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error) {
	return r.getOne(ctx, "buscar stock", `
		SELECT `+stockColumns+`
		FROM stock_entries
		WHERE product_id = $1
		  AND size_id IS NOT DISTINCT FROM $2
		  AND warehouse_id IS NOT DISTINCT FROM $3`,
		key.ProductID, key.SizeID, key.WarehouseID)
}

// ListByProduct lista las posiciones de un producto.
func (r *StockRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock_entries WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, persistence("listar stock", err)
	}
	list, err := scanEntries(rows)
	if err != nil {
		return nil, persistence("listar stock", err)
	}
	return list, nil
}

// SetQuantity escribe la cantidad. El CHECK (quantity >= 0) de la tabla es la última defensa.
func (r *StockRepo) SetQuantity(ctx context.Context, id int64, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_entries SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return persistence("actualizar stock", err)
	}
	if tag.RowsAffected() == 0 {
		return persistence("actualizar stock", fmt.Errorf("registro %d inexistente", id))
	}
	return nil
}

// ListBelowMinimum productos activos cuyo stock sumado es menor a min_stock, mayor déficit primero.
func (r *StockRepo) ListBelowMinimum(ctx context.Context, warehouseID *int64) ([]repository.LowStockItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.code, p.name, p.min_stock, COALESCE(SUM(s.quantity), 0)::int AS current_stock
		FROM products p
		LEFT JOIN stock_entries s
		       ON s.product_id = p.id
		      AND ($1::bigint IS NULL OR s.warehouse_id = $1)
		WHERE p.active
		GROUP BY p.id, p.code, p.name, p.min_stock
		HAVING COALESCE(SUM(s.quantity), 0) < p.min_stock
		ORDER BY p.min_stock - COALESCE(SUM(s.quantity), 0) DESC, p.id`, warehouseID)
	if err != nil {
		return nil, persistence("listar stock bajo mínimo", err)
	}
	defer rows.Close()

	var out []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.Code, &it.ProductName, &it.MinStock, &it.CurrentStock); err != nil {
			return nil, persistence("listar stock bajo mínimo", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("listar stock bajo mínimo", err)
	}
	return out, nil
}

func (r *StockRepo) getOne(ctx context.Context, op, sql string, args ...any) (*entity.StockEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistence(op, err)
	}
	return e, nil
}

func scanEntry(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := row.Scan(&e.ID, &e.Key.ProductID, &e.Key.SizeID, &e.Key.WarehouseID, &e.Quantity, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]*entity.StockEntry, error) {
	defer rows.Close()
	var out []*entity.StockEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
