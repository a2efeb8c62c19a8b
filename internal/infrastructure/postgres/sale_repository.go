package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, folio, total, sold_at, seller_id, payment_method_id, customer_id,
	sale_type, installment_count, installment_amount`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta el encabezado. Un folio repetido devuelve domain.ErrDuplicateRequest.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales (folio, total, sold_at, seller_id, payment_method_id, customer_id,
			sale_type, installment_count, installment_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		s.Folio, s.Total, s.SoldAt, s.SellerID, s.PaymentMethodID, s.CustomerID,
		string(s.Type), s.InstallmentCount, s.InstallmentAmount,
	).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("folio %s ya existe: %w", s.Folio, domain.ErrDuplicateRequest)
		}
		return persistence("insertar venta", err)
	}
	return nil
}

// CreateLineItem inserta una línea de la venta.
func (r *SaleRepo) CreateLineItem(ctx context.Context, l *entity.SaleLineItem) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sale_items (sale_id, product_id, stock_entry_id, quantity, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		l.SaleID, l.ProductID, l.StockEntryID, l.Quantity, l.UnitPrice, l.Discount, l.Subtotal,
	).Scan(&l.ID)
	return persistence("insertar línea de venta", err)
}

// GetByID obtiene el encabezado; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByFolio obtiene el encabezado por folio; nil si no existe.
func (r *SaleRepo) GetByFolio(ctx context.Context, folio string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE folio = $1`, folio)
}

// ListLineItems líneas de la venta en orden de captura.
func (r *SaleRepo) ListLineItems(ctx context.Context, saleID int64) ([]*entity.SaleLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, stock_entry_id, quantity, unit_price, discount, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, persistence("listar líneas de venta", err)
	}
	defer rows.Close()

	out := make([]*entity.SaleLineItem, 0)
	for rows.Next() {
		var l entity.SaleLineItem
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.StockEntryID, &l.Quantity, &l.UnitPrice, &l.Discount, &l.Subtotal); err != nil {
			return nil, persistence("listar líneas de venta", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("listar líneas de venta", err)
	}
	return out, nil
}

// DeleteLineItems elimina las líneas de la venta.
func (r *SaleRepo) DeleteLineItems(ctx context.Context, saleID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID)
	return persistence("eliminar líneas de venta", err)
}

// Delete elimina el encabezado. El kardex no se toca.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	return persistence("eliminar venta", err)
}

func (r *SaleRepo) getOne(ctx context.Context, sql string, args ...any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistence("obtener venta", err)
	}
	return s, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s        entity.Sale
		saleType string
	)
	err := row.Scan(&s.ID, &s.Folio, &s.Total, &s.SoldAt, &s.SellerID, &s.PaymentMethodID, &s.CustomerID,
		&saleType, &s.InstallmentCount, &s.InstallmentAmount)
	if err != nil {
		return nil, err
	}
	s.Type = entity.SaleType(saleType)
	return &s, nil
}
