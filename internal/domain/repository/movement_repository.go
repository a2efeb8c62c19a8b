package repository

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// MovementRepository puerto del kardex (solo inserción).
type MovementRepository interface {
	// Append inserta el registro y asigna ID. No valida; el motor garantiza la consistencia.
	Append(ctx context.Context, m *entity.Movement) error
	ListForEntry(ctx context.Context, stockEntryID int64) ([]*entity.Movement, error)
	// ListForSale devuelve débitos y créditos de anulación de la venta con ese folio.
	ListForSale(ctx context.Context, folio string) ([]*entity.Movement, error)
	ListByReference(ctx context.Context, reference string) ([]*entity.Movement, error)
}
