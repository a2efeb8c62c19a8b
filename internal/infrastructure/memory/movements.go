package memory

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

type movementRepo struct {
	t *tx
}

func (r *movementRepo) Append(ctx context.Context, m *entity.Movement) error {
	defer r.t.write()()
	s := r.t.s

	s.nextMovementID++
	m.ID = s.nextMovementID
	prevLen := len(s.movements)
	s.movements = append(s.movements, cloneMovement(m))
	r.t.record(func() {
		s.movements = s.movements[:prevLen]
	})
	return nil
}

func (r *movementRepo) ListForEntry(ctx context.Context, stockEntryID int64) ([]*entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.StockEntryID == stockEntryID }), nil
}

func (r *movementRepo) ListForSale(ctx context.Context, folio string) ([]*entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool {
		return m.Reference == folio &&
			(m.Kind == entity.MovementKindSaleDebit || m.Kind == entity.MovementKindSaleVoidCredit)
	}), nil
}

func (r *movementRepo) ListByReference(ctx context.Context, reference string) ([]*entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.Reference == reference }), nil
}

// filter recorre el kardex en orden de inserción.
func (r *movementRepo) filter(keep func(*entity.Movement) bool) []*entity.Movement {
	defer r.t.read()()
	out := make([]*entity.Movement, 0)
	for _, m := range r.t.s.movements {
		if keep(m) {
			out = append(out, cloneMovement(m))
		}
	}
	return out
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	c.Key = m.Key.Clone()
	if m.UserID != nil {
		c.UserID = entity.ID(*m.UserID)
	}
	if m.UnitCost != nil {
		cost := *m.UnitCost
		c.UnitCost = &cost
	}
	return &c
}
