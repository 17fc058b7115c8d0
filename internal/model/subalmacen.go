package model

import "time"

// SumideroVenta is the destination id of a transfer that consumes stock
// instead of moving it.
const SumideroVenta uint = 0

// Subalmacen is a stock-holding location. Exactly one row carries
// EsPrincipal=true; it receives the initial stock of new products and cannot
// be deleted.
type Subalmacen struct {
	ID          uint   `gorm:"primaryKey"`
	Nombre      string `gorm:"not null"`
	Direccion   string
	Descripcion string
	EsPrincipal bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default pluralization (subalmacens → subalmacenes).
func (Subalmacen) TableName() string { return "subalmacenes" }
