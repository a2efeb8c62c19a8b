package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// Store backend en memoria para pruebas y demos (STORE_BACKEND=memory).
// Run/RunSale se serializan con mu; cada escritura dentro de la transacción registra cómo
// deshacerse y, si fn falla, se deshace en orden inverso.
//
// El candado es global: dos transacciones sobre posiciones distintas también se esperan.
// Solo el backend PostgreSQL bloquea por fila y deja correr en paralelo llaves disjuntas.
type Store struct {
	mu sync.RWMutex

	nextEntryID    int64
	nextMovementID int64
	nextSaleID     int64
	nextLineID     int64

	entries    map[int64]*entity.StockEntry
	byKey      map[string]int64
	movements  []*entity.Movement
	sales      map[int64]*entity.Sale
	lines      map[int64][]*entity.SaleLineItem
	customers  map[int64]*entity.Customer
	products   map[int64]*entity.Product
	sizes      map[int64]*entity.Size
	warehouses map[int64]*entity.Warehouse
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		entries:    make(map[int64]*entity.StockEntry),
		byKey:      make(map[string]int64),
		sales:      make(map[int64]*entity.Sale),
		lines:      make(map[int64][]*entity.SaleLineItem),
		customers:  make(map[int64]*entity.Customer),
		products:   make(map[int64]*entity.Product),
		sizes:      make(map[int64]*entity.Size),
		warehouses: make(map[int64]*entity.Warehouse),
	}
}

// NewSeeded crea un Store con un catálogo de demostración: dos bodegas, tallas de calzado y ropa,
// tres productos y un cliente.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()
	s.AddWarehouse(entity.Warehouse{Name: "Tienda Centro", Address: "Av. Principal 120", Type: entity.WarehouseTypeStore, Active: true, CreatedAt: now, UpdatedAt: now})
	s.AddWarehouse(entity.Warehouse{Name: "Bodega Norte", Address: "Calle 8 #45", Type: entity.WarehouseTypeStorage, Active: true, CreatedAt: now, UpdatedAt: now})
	for _, n := range []string{"25", "25.5", "26", "26.5", "27"} {
		s.AddSize(entity.Size{Name: n, Kind: entity.SizeKindNumeric, Active: true})
	}
	for _, n := range []string{"CH", "M", "G"} {
		s.AddSize(entity.Size{Name: n, Kind: entity.SizeKindAlphanumeric, Active: true})
	}
	s.AddProduct(entity.Product{Code: "TEN-001", Name: "Tenis running", MinStock: 6, BaseCost: decimal.NewFromInt(650), SalePrice: decimal.NewFromInt(1299), Active: true, CreatedAt: now, UpdatedAt: now})
	s.AddProduct(entity.Product{Code: "BOT-010", Name: "Botín piel", MinStock: 4, BaseCost: decimal.NewFromInt(900), SalePrice: decimal.NewFromInt(1890), Active: true, CreatedAt: now, UpdatedAt: now})
	s.AddProduct(entity.Product{Code: "PLY-200", Name: "Playera algodón", MinStock: 10, BaseCost: decimal.NewFromInt(90), SalePrice: decimal.NewFromInt(249), Active: true, CreatedAt: now, UpdatedAt: now})
	s.AddCustomer(entity.Customer{Name: "Cliente mostrador", Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now})
	return s
}

// tx estado de una transacción. Las fachadas de lectura usan un tx con inTx=false,
// que toma el candado en cada llamada y no registra deshacer.
type tx struct {
	s    *Store
	inTx bool
	undo []func()
}

func (t *tx) record(f func()) {
	if t.inTx {
		t.undo = append(t.undo, f)
	}
}

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *tx) read() func() {
	if t.inTx {
		return func() {}
	}
	t.s.mu.RLock()
	return t.s.mu.RUnlock
}

func (t *tx) write() func() {
	if t.inTx {
		return func() {}
	}
	t.s.mu.Lock()
	return t.s.mu.Unlock
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context, t *tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{s: s, inTx: true}
	if err := fn(ctx, t); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	return s.run(ctx, func(ctx context.Context, t *tx) error {
		return fn(ctx, &stockRepo{t: t}, &movementRepo{t: t})
	})
}

// RunSale implementa sales.TxRunner.
func (s *Store) RunSale(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return s.run(ctx, func(ctx context.Context, t *tx) error {
		return fn(ctx, &stockRepo{t: t}, &movementRepo{t: t}, &saleRepo{t: t}, &customerRepo{t: t})
	})
}

// Fachadas fuera de transacción.

func (s *Store) Stock() repository.StockRepository       { return &stockRepo{t: &tx{s: s}} }
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{t: &tx{s: s}} }
func (s *Store) Sales() repository.SaleRepository         { return &saleRepo{t: &tx{s: s}} }
func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{t: &tx{s: s}} }
func (s *Store) Catalog() repository.CatalogRepository    { return &catalogRepo{s: s} }
