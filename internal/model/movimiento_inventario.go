package model

import "time"

// Movimiento tipos
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
)

// MovimientoInventario registra un ajuste manual de stock en un subalmacén.
// Las transferencias y ventas no generan movimientos.
type MovimientoInventario struct {
	ID            uint      `gorm:"primaryKey"`
	Fecha         time.Time `gorm:"not null;index"`
	ProductoID    uint      `gorm:"not null;index"`
	SubalmacenID  uint      `gorm:"not null;index"`
	Cantidad      int       `gorm:"not null"`
	Tipo          string    `gorm:"type:varchar(10);not null"` // "entrada" | "salida"
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Descripcion   string
	DocumentoRef  string
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization (movimiento_inventarios → movimientos_inventario).
func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
