package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a catalogue entry. Stock is a legacy denormalized total kept for
// compatibility with older data; the authoritative quantities live in
// InventarioSubalmacen rows.
type Producto struct {
	ID          uint   `gorm:"primaryKey"`
	Codigo      string `gorm:"uniqueIndex;not null"`
	Nombre      string `gorm:"index;not null"`
	Descripcion string
	Categoria   string
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Costo       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	StockMinimo int             `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
