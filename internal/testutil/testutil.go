// Package testutil builds throwaway stores and fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/infra"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := infra.NewDatabase("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Config returns a config suitable for tests with the given sale policy.
func Config(policy string) *config.Config {
	return &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		MainWarehouseID:    1,
		SalePolicy:         policy,
		BusinessName:       "Kiosco Test",
		StockCacheTTLSecs:  60,
	}
}

func Subalmacen(t *testing.T, db *gorm.DB, nombre string, principal bool) *model.Subalmacen {
	t.Helper()
	s := &model.Subalmacen{Nombre: nombre, EsPrincipal: principal}
	require.NoError(t, db.Create(s).Error)
	return s
}

func Producto(t *testing.T, db *gorm.DB, codigo string, precio string, minimo int) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Codigo:      codigo,
		Nombre:      "Producto " + codigo,
		Precio:      decimal.RequireFromString(precio),
		StockMinimo: minimo,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Stock writes an absolute quantity into the ledger row.
func Stock(t *testing.T, db *gorm.DB, productoID, subalmacenID uint, stock int) {
	t.Helper()
	row := &model.InventarioSubalmacen{ProductoID: productoID, SubalmacenID: subalmacenID, Stock: stock}
	require.NoError(t, db.Create(row).Error)
}

// StockDe reads a ledger row; a missing row reads as 0.
func StockDe(t *testing.T, db *gorm.DB, productoID, subalmacenID uint) int {
	t.Helper()
	var rows []model.InventarioSubalmacen
	require.NoError(t, db.Where("producto_id = ? AND subalmacen_id = ?", productoID, subalmacenID).Find(&rows).Error)
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Stock
}

// Usuario stores a user with a minimum-cost bcrypt hash of password.
func Usuario(t *testing.T, db *gorm.DB, username, password, rol string, subalmacenID *uint) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{Username: username, Nombre: username, PasswordHash: string(hash), Rol: rol, SubalmacenID: subalmacenID}
	require.NoError(t, db.Create(u).Error)
	return u
}
