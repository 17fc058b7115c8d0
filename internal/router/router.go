package router

import (
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/handler"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/infra"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/middleware"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the wired service layer. cmd/server needs it before serving
// (main warehouse resolution), and tests use it to seed data.
type Services struct {
	Auth        service.AuthService
	Inventario  service.InventarioService
	Movimientos service.MovimientoService
	Productos   service.ProductoService
	Subalmacen  service.SubalmacenService
	Ventas      service.VentaService

	ProductoRepo repository.ProductoRepository
}

// NewServices wires Service ← Repository ← DB/Redis. A nil rdb runs without
// the stock cache and the alert queue.
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	subalmacenRepo := repository.NewSubalmacenRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewStockCache(rdb, time.Duration(cfg.StockCacheTTLSecs)*time.Second)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	inventarioSvc := service.NewInventarioService(inventarioRepo, productoRepo, subalmacenRepo, cache, dispatcher)

	return &Services{
		Auth:         service.NewAuthService(usuarioRepo, subalmacenRepo, cfg),
		Inventario:   inventarioSvc,
		Movimientos:  service.NewMovimientoService(movimientoRepo, inventarioRepo, productoRepo, subalmacenRepo, inventarioSvc),
		Productos:    service.NewProductoService(productoRepo, inventarioRepo, subalmacenRepo, inventarioSvc),
		Subalmacen:   service.NewSubalmacenService(subalmacenRepo, inventarioRepo, usuarioRepo, inventarioSvc),
		Ventas:       service.NewVentaService(ventaRepo, inventarioSvc, inventarioRepo, productoRepo, subalmacenRepo, usuarioRepo, cfg),
		ProductoRepo: productoRepo,
	}
}

// New returns a configured Gin engine serving svcs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	usuariosH := handler.NewUsuariosHandler(svcs.Auth)
	productosH := handler.NewProductosHandler(svcs.Productos, svcs.Inventario)
	subalmacenesH := handler.NewSubalmacenesHandler(svcs.Subalmacen, svcs.Inventario)
	inventarioH := handler.NewInventarioHandler(svcs.Inventario, svcs.Movimientos)
	ventasH := handler.NewVentasHandler(svcs.Ventas)
	consultaH := handler.NewConsultaPreciosHandler(svcs.ProductoRepo, svcs.Inventario)

	todos := middleware.RequireRole(model.RolAdmin, model.RolTrabajador)
	admin := middleware.RequireRole(model.RolAdmin)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/v1/precio/:codigo", consultaH.PorCodigo)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/auth/me", todos, authH.Me)
		v1.PUT("/auth/password", todos, authH.CambiarPassword)

		v1.POST("/ventas", todos, ventasH.Liquidar)
		v1.POST("/ventas/sync", todos, ventasH.SyncBatch)
		v1.GET("/ventas", todos, ventasH.ListarVentas)
		v1.GET("/ventas/:id", todos, ventasH.ObtenerVenta)
		v1.GET("/ventas/:id/ticket", todos, ventasH.Ticket)

		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		v1.GET("/productos/:id/stock", todos, productosH.StockTotal)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		v1.GET("/subalmacenes", todos, subalmacenesH.Listar)
		v1.GET("/subalmacenes/:id", todos, subalmacenesH.ObtenerPorID)
		v1.GET("/subalmacenes/:id/inventario", todos, subalmacenesH.Inventario)
		subs := v1.Group("/subalmacenes", admin)
		{
			subs.POST("", subalmacenesH.Crear)
			subs.PUT("/:id", subalmacenesH.Actualizar)
			subs.DELETE("/:id", subalmacenesH.Eliminar)
		}

		inv := v1.Group("/inventario", admin)
		{
			inv.POST("/transferencias", inventarioH.Transferir)
			inv.POST("/transferencias/lote", inventarioH.TransferirLote)
			inv.GET("/stock/:producto_id/:subalmacen_id", inventarioH.ObtenerFila)
			inv.PUT("/stock/:producto_id/:subalmacen_id", inventarioH.FijarStock)
			inv.POST("/movimientos", inventarioH.RegistrarMovimiento)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.GET("/alertas", inventarioH.ObtenerAlertas)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
		}
	}

	return r
}
