package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

type saleRepo struct {
	t *tx
}

func (r *saleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	defer r.t.write()()
	s := r.t.s

	for _, existing := range s.sales {
		if existing.Folio == sale.Folio {
			return fmt.Errorf("folio %s ya existe: %w", sale.Folio, domain.ErrDuplicateRequest)
		}
	}
	s.nextSaleID++
	sale.ID = s.nextSaleID
	s.sales[sale.ID] = cloneSale(sale)
	id := sale.ID
	r.t.record(func() { delete(s.sales, id) })
	return nil
}

func (r *saleRepo) CreateLineItem(ctx context.Context, l *entity.SaleLineItem) error {
	defer r.t.write()()
	s := r.t.s

	if _, ok := s.sales[l.SaleID]; !ok {
		return &domain.PersistenceError{Op: "crear línea de venta", Err: fmt.Errorf("venta %d inexistente", l.SaleID)}
	}
	s.nextLineID++
	l.ID = s.nextLineID
	c := *l
	prev := s.lines[l.SaleID]
	s.lines[l.SaleID] = append(prev[:len(prev):len(prev)], &c)
	saleID := l.SaleID
	r.t.record(func() {
		if len(prev) == 0 {
			delete(s.lines, saleID)
			return
		}
		s.lines[saleID] = prev
	})
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	defer r.t.read()()
	if sale, ok := r.t.s.sales[id]; ok {
		return cloneSale(sale), nil
	}
	return nil, nil
}

func (r *saleRepo) GetByFolio(ctx context.Context, folio string) (*entity.Sale, error) {
	defer r.t.read()()
	for _, sale := range r.t.s.sales {
		if sale.Folio == folio {
			return cloneSale(sale), nil
		}
	}
	return nil, nil
}

func (r *saleRepo) ListLineItems(ctx context.Context, saleID int64) ([]*entity.SaleLineItem, error) {
	defer r.t.read()()
	lines := r.t.s.lines[saleID]
	out := make([]*entity.SaleLineItem, 0, len(lines))
	for _, l := range lines {
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *saleRepo) DeleteLineItems(ctx context.Context, saleID int64) error {
	defer r.t.write()()
	s := r.t.s
	prev, ok := s.lines[saleID]
	if !ok {
		return nil
	}
	delete(s.lines, saleID)
	r.t.record(func() { s.lines[saleID] = prev })
	return nil
}

func (r *saleRepo) Delete(ctx context.Context, id int64) error {
	defer r.t.write()()
	s := r.t.s
	prev, ok := s.sales[id]
	if !ok {
		return nil
	}
	delete(s.sales, id)
	r.t.record(func() { s.sales[id] = prev })
	return nil
}

func cloneSale(sale *entity.Sale) *entity.Sale {
	c := *sale
	c.Lines = nil
	if sale.SellerID != nil {
		c.SellerID = entity.ID(*sale.SellerID)
	}
	if sale.CustomerID != nil {
		c.CustomerID = entity.ID(*sale.CustomerID)
	}
	if sale.InstallmentAmount != nil {
		amount := *sale.InstallmentAmount
		c.InstallmentAmount = &amount
	}
	return &c
}

type customerRepo struct {
	t *tx
}

func (r *customerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	defer r.t.read()()
	if c, ok := r.t.s.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *customerRepo) IncreaseBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	defer r.t.write()()
	c, ok := r.t.s.customers[id]
	if !ok {
		return fmt.Errorf("cliente %d: %w", id, domain.ErrNotFound)
	}
	prevBalance, prevAt := c.Balance, c.UpdatedAt
	c.Balance = c.Balance.Add(amount)
	c.UpdatedAt = time.Now().UTC()
	r.t.record(func() {
		c.Balance = prevBalance
		c.UpdatedAt = prevAt
	})
	return nil
}
