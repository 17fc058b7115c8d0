package model

import "time"

// Roles
const (
	RolAdmin      = "admin"
	RolTrabajador = "trabajador"
)

// Usuario stores system users with role-based access.
// Rol: "admin" | "trabajador"
type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Nombre       string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// SubalmacenID scopes a trabajador to one warehouse; nil for admins means
	// the main warehouse when selling.
	SubalmacenID *uint `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *Usuario) EsAdmin() bool { return u.Rol == RolAdmin }
