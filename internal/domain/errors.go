package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransfer   = errors.New("la bodega de origen y destino no pueden ser la misma")
	ErrStockEntryMissing = errors.New("registro de stock inexistente")
	ErrPersistence       = errors.New("error de persistencia")
	ErrInactiveReference = errors.New("referencia inactiva")
	ErrDuplicateRequest  = errors.New("solicitud duplicada")
)

// Positioner describe una posición de stock en los mensajes de error.
type Positioner interface {
	String() string
}

// InsufficientStockError indica que un débito dejaría la posición en negativo.
type InsufficientStockError struct {
	Position  Positioner
	EntryID   int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s (registro %d): solicitado %d, disponible %d, faltan %d",
		e.Position, e.EntryID, e.Requested, e.Available, e.Requested-e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// StockEntryMissingError indica que una línea de venta apunta a un registro de stock que ya no existe.
type StockEntryMissingError struct {
	EntryID int64
	LineID  int64
}

func (e *StockEntryMissingError) Error() string {
	return fmt.Sprintf("registro de stock %d inexistente (línea %d)", e.EntryID, e.LineID)
}

func (e *StockEntryMissingError) Is(target error) bool { return target == ErrStockEntryMissing }

// PersistenceError envuelve un fallo del almacenamiento subyacente.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// PartialVoidError reporta las líneas que no pudieron restituirse al anular una venta.
// Las demás líneas sí se restituyeron y la venta quedó eliminada.
type PartialVoidError struct {
	SaleID   int64
	Failures []*StockEntryMissingError
}

func (e *PartialVoidError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("venta %d anulada parcialmente: %s", e.SaleID, strings.Join(parts, "; "))
}

func (e *PartialVoidError) Is(target error) bool { return target == ErrStockEntryMissing }

// DuplicateRequestError indica que la llave de idempotencia ya fue usada.
// Folio queda vacío mientras la venta original siga en curso.
type DuplicateRequestError struct {
	Key   string
	Folio string
}

func (e *DuplicateRequestError) Error() string {
	if e.Folio == "" {
		return fmt.Sprintf("solicitud %q en proceso", e.Key)
	}
	return fmt.Sprintf("solicitud %q ya registrada como venta %s", e.Key, e.Folio)
}

func (e *DuplicateRequestError) Is(target error) bool { return target == ErrDuplicateRequest }

// Códigos estables para respuestas y métricas.
const (
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidTransfer   = "INVALID_TRANSFER"
	CodeStockEntryMissing = "STOCK_ENTRY_MISSING"
	CodePersistence       = "PERSISTENCE_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInactive          = "INACTIVE_REFERENCE"
	CodeDuplicate         = "DUPLICATE_REQUEST"
	CodeInternal          = "INTERNAL"
)

// Code clasifica err en uno de los códigos anteriores.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrInvalidTransfer):
		return CodeInvalidTransfer
	case errors.Is(err, ErrStockEntryMissing):
		return CodeStockEntryMissing
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrInactiveReference):
		return CodeInactive
	case errors.Is(err, ErrDuplicateRequest):
		return CodeDuplicate
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	default:
		return CodeInternal
	}
}
