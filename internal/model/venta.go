package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta estados
const (
	VentaCompletada = "completada"
	VentaParcial    = "parcial"
)

// ItemVenta is a line of a sale as it was at settlement time. It is stored
// serialized inside the venta row, never in its own table.
type ItemVenta struct {
	ProductoID uint            `json:"producto_id"`
	Codigo     string          `json:"codigo"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Cantidad   int             `json:"cantidad"`
	// Stock is the quantity available in the selling warehouse before the sale.
	Stock int `json:"stock"`
}

// Venta is inserted once and never updated.
type Venta struct {
	ID           uint            `gorm:"primaryKey"`
	Fecha        time.Time       `gorm:"not null;index"`
	Items        []ItemVenta     `gorm:"serializer:json;type:text;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PagoCon      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cambio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SubalmacenID uint            `gorm:"not null;index"`
	VendedorID   uint            `gorm:"not null;index"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'completada'"`
	// OfflineID deduplicates sales replayed by clients that were offline.
	OfflineID *string `gorm:"uniqueIndex"`
	CreatedAt time.Time
}
