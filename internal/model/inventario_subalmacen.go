package model

import "time"

// InventarioSubalmacen is the authoritative quantity of one product held in
// one warehouse. At most one row exists per (ProductoID, SubalmacenID).
type InventarioSubalmacen struct {
	ID           uint `gorm:"primaryKey"`
	ProductoID   uint `gorm:"not null;uniqueIndex:idx_inventario_producto_subalmacen"`
	SubalmacenID uint `gorm:"not null;uniqueIndex:idx_inventario_producto_subalmacen;index"`
	Stock        int  `gorm:"not null;default:0;check:chk_inventario_stock_no_negativo,stock >= 0"`
	UpdatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (InventarioSubalmacen) TableName() string { return "inventario_subalmacen" }
