package entity

// Tipos de talla.
const (
	SizeKindNumeric      = "numeric"      // calzado: 25, 25.5, 26...
	SizeKindAlphanumeric = "alphanumeric" // ropa: CH, M, G...
)

// Size talla del catálogo.
type Size struct {
	ID     int64
	Name   string
	Kind   string
	Active bool
}
