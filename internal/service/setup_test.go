package service_test

import (
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/testutil"

	"gorm.io/gorm"
)

// testEnv wires every service against one in-memory database, without Redis.
type testEnv struct {
	db  *gorm.DB
	cfg *config.Config

	inventario  service.InventarioService
	productos   service.ProductoService
	subalmacen  service.SubalmacenService
	movimientos service.MovimientoService
	ventas      service.VentaService
	auth        service.AuthService

	principal *model.Subalmacen
	punto     *model.Subalmacen
}

func newEnv(t *testing.T, policy string) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config(policy)

	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	subalmacenRepo := repository.NewSubalmacenRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)

	inv := service.NewInventarioService(inventarioRepo, productoRepo, subalmacenRepo, nil, nil)
	return &testEnv{
		db:          db,
		cfg:         cfg,
		inventario:  inv,
		productos:   service.NewProductoService(productoRepo, inventarioRepo, subalmacenRepo, inv),
		subalmacen:  service.NewSubalmacenService(subalmacenRepo, inventarioRepo, usuarioRepo, inv),
		movimientos: service.NewMovimientoService(repository.NewMovimientoRepository(db), inventarioRepo, productoRepo, subalmacenRepo, inv),
		ventas:      service.NewVentaService(repository.NewVentaRepository(db), inv, inventarioRepo, productoRepo, subalmacenRepo, usuarioRepo, cfg),
		auth:        service.NewAuthService(usuarioRepo, subalmacenRepo, cfg),
		principal:   testutil.Subalmacen(t, db, "Principal", true),
		punto:       testutil.Subalmacen(t, db, "Punto de Venta", false),
	}
}

func (e *testEnv) stock(t *testing.T, productoID, subalmacenID uint) int {
	t.Helper()
	return testutil.StockDe(t, e.db, productoID, subalmacenID)
}

func (e *testEnv) total(t *testing.T, productoID uint) int {
	t.Helper()
	var total int64
	if err := e.db.Model(&model.InventarioSubalmacen{}).
		Select("COALESCE(SUM(stock), 0)").
		Where("producto_id = ?", productoID).
		Scan(&total).Error; err != nil {
		t.Fatal(err)
	}
	return int(total)
}

func uintPtr(v uint) *uint { return &v }
