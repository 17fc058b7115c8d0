// seed loads demo data: the main warehouse, a point-of-sale warehouse, an
// admin and a trabajador, and a handful of products. Running it twice is
// harmless; existing users and product codes are left alone.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/infra"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/router"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type productoDemo struct {
	codigo, nombre, categoria string
	precio, costo             string
	stock, minimo, enPunto    int
}

var productos = []productoDemo{
	{"P001", "Arroz 1kg", "Almacén", "1200.00", "850.00", 100, 10, 20},
	{"P002", "Aceite girasol 900ml", "Almacén", "2350.50", "1700.00", 60, 8, 12},
	{"P003", "Yerba mate 500g", "Infusiones", "1890.00", "1300.00", 80, 10, 15},
	{"P004", "Azúcar 1kg", "Almacén", "980.00", "640.00", 50, 10, 10},
	{"P005", "Fideos spaghetti 500g", "Pastas", "750.00", "480.00", 120, 15, 30},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	ctx := context.Background()
	svcs := router.NewServices(cfg, db, nil)

	principal, err := svcs.Subalmacen.AsegurarPrincipal(ctx, cfg.MainWarehouseID)
	if err != nil {
		log.Fatal().Err(err).Msg("main warehouse")
	}
	punto := puntoDeVenta(ctx, svcs)

	crearUsuario(ctx, svcs, dto.CrearUsuarioRequest{
		Username: "admin", Nombre: "Administrador", Password: "admin123", Rol: model.RolAdmin,
	})
	crearUsuario(ctx, svcs, dto.CrearUsuarioRequest{
		Username: "vendedor", Nombre: "Vendedor Demo", Password: "vendedor123", Rol: model.RolTrabajador,
		SubalmacenID: &punto,
	})

	for _, p := range productos {
		creado, err := svcs.Productos.Crear(ctx, dto.CrearProductoRequest{
			Codigo:       p.codigo,
			Nombre:       p.nombre,
			Categoria:    p.categoria,
			Precio:       decimal.RequireFromString(p.precio),
			Costo:        decimal.RequireFromString(p.costo),
			StockInicial: p.stock,
			StockMinimo:  p.minimo,
		})
		if errors.Is(err, service.ErrConflicto) {
			log.Info().Str("codigo", p.codigo).Msg("producto ya existe")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("codigo", p.codigo).Msg("crear producto")
		}
		err = svcs.Inventario.Transferir(ctx, dto.TransferenciaRequest{
			ProductoID: creado.ID, Cantidad: p.enPunto, OrigenID: principal.ID, DestinoID: punto,
		})
		if err != nil {
			log.Fatal().Err(err).Str("codigo", p.codigo).Msg("transferir al punto de venta")
		}
		log.Info().Str("codigo", p.codigo).Int("principal", p.stock-p.enPunto).Int("punto", p.enPunto).Msg("producto creado")
	}
	log.Info().Msg("seed completo")
}

func puntoDeVenta(ctx context.Context, svcs *router.Services) uint {
	subs, err := svcs.Subalmacen.Listar(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar subalmacenes")
	}
	for _, s := range subs {
		if s.Nombre == "Punto de Venta" {
			return s.ID
		}
	}
	s, err := svcs.Subalmacen.Crear(ctx, dto.SubalmacenRequest{Nombre: "Punto de Venta", Descripcion: "Mostrador"})
	if err != nil {
		log.Fatal().Err(err).Msg("crear punto de venta")
	}
	return s.ID
}

func crearUsuario(ctx context.Context, svcs *router.Services, req dto.CrearUsuarioRequest) {
	_, err := svcs.Auth.CrearUsuario(ctx, req)
	switch {
	case errors.Is(err, service.ErrConflicto):
		log.Info().Str("username", req.Username).Msg("usuario ya existe")
	case err != nil:
		log.Fatal().Err(err).Str("username", req.Username).Msg("crear usuario")
	default:
		log.Info().Str("username", req.Username).Str("rol", req.Rol).Msg("usuario creado")
	}
}
