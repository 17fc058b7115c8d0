package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/infra"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService owns the per-warehouse ledger and the transfer primitive
// every other stock mutation is built on.
type InventarioService interface {
	ObtenerFila(ctx context.Context, productoID, subalmacenID uint) (*dto.InventarioRowResponse, error)
	FijarStock(ctx context.Context, productoID, subalmacenID uint, stock int) (*dto.InventarioRowResponse, error)
	InventarioSubalmacen(ctx context.Context, subalmacenID uint, soloConStock bool) ([]dto.InventarioItemResponse, error)
	StockTotal(ctx context.Context, productoID uint) (int, error)

	// Transferir moves stock between two warehouses, or consumes it when
	// DestinoID is model.SumideroVenta. All or nothing.
	Transferir(ctx context.Context, req dto.TransferenciaRequest) error
	// TransferirLote applies every item in one transaction.
	TransferirLote(ctx context.Context, req dto.TransferenciaLoteRequest) error
	// TransferirTx is the primitive itself; it runs inside the caller's tx
	// and does not check that the referenced rows exist.
	TransferirTx(tx *gorm.DB, productoID uint, cantidad int, origenID, destinoID uint) error

	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	// NotificarCambios must be called after a committed stock mutation:
	// it drops cached totals and enqueues low-stock alerts.
	NotificarCambios(ctx context.Context, productoIDs ...uint)
}

type inventarioService struct {
	repo           repository.InventarioRepository
	productoRepo   repository.ProductoRepository
	subalmacenRepo repository.SubalmacenRepository
	cache          *infra.StockCache
	dispatcher     *worker.Dispatcher
}

// NewInventarioService wires the ledger. cache and dispatcher may be nil.
func NewInventarioService(
	repo repository.InventarioRepository,
	productoRepo repository.ProductoRepository,
	subalmacenRepo repository.SubalmacenRepository,
	cache *infra.StockCache,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{
		repo:           repo,
		productoRepo:   productoRepo,
		subalmacenRepo: subalmacenRepo,
		cache:          cache,
		dispatcher:     dispatcher,
	}
}

// ── Ledger ────────────────────────────────────────────────────────────────────

func (s *inventarioService) ObtenerFila(ctx context.Context, productoID, subalmacenID uint) (*dto.InventarioRowResponse, error) {
	if err := s.existen(ctx, productoID, subalmacenID); err != nil {
		return nil, err
	}
	resp := &dto.InventarioRowResponse{ProductoID: productoID, SubalmacenID: subalmacenID}
	row, err := s.repo.FindRow(ctx, productoID, subalmacenID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return resp, nil
	case err != nil:
		return nil, fmt.Errorf("leer inventario: %w", err)
	}
	resp.Stock = row.Stock
	resp.Existe = true
	return resp, nil
}

func (s *inventarioService) FijarStock(ctx context.Context, productoID, subalmacenID uint, stock int) (*dto.InventarioRowResponse, error) {
	if stock < 0 {
		return nil, errValidacion("el stock no puede ser negativo")
	}
	if err := s.existen(ctx, productoID, subalmacenID); err != nil {
		return nil, err
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.SetRowTx(tx, productoID, subalmacenID, stock)
	})
	if err != nil {
		return nil, fmt.Errorf("fijar stock: %w", err)
	}
	s.NotificarCambios(ctx, productoID)
	return &dto.InventarioRowResponse{
		ProductoID: productoID, SubalmacenID: subalmacenID, Stock: stock, Existe: true,
	}, nil
}

func (s *inventarioService) InventarioSubalmacen(ctx context.Context, subalmacenID uint, soloConStock bool) ([]dto.InventarioItemResponse, error) {
	if _, err := s.subalmacenRepo.FindByID(ctx, subalmacenID); err != nil {
		return nil, notFoundOr(err, "subalmacén", subalmacenID, "buscar subalmacén")
	}
	rows, err := s.repo.ListBySubalmacen(ctx, subalmacenID, soloConStock)
	if err != nil {
		return nil, fmt.Errorf("listar inventario: %w", err)
	}
	resp := make([]dto.InventarioItemResponse, 0, len(rows))
	for _, r := range rows {
		if r.Producto == nil {
			continue
		}
		resp = append(resp, dto.InventarioItemResponse{
			ProductoID:  r.ProductoID,
			Codigo:      r.Producto.Codigo,
			Nombre:      r.Producto.Nombre,
			Categoria:   r.Producto.Categoria,
			Precio:      r.Producto.Precio.StringFixed(2),
			Stock:       r.Stock,
			StockMinimo: r.Producto.StockMinimo,
		})
	}
	return resp, nil
}

func (s *inventarioService) StockTotal(ctx context.Context, productoID uint) (int, error) {
	if total, ok := s.cache.Get(ctx, productoID); ok {
		return total, nil
	}
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return 0, notFoundOr(err, "producto", productoID, "buscar producto")
	}
	total, err := s.repo.TotalStock(ctx, productoID)
	if err != nil {
		return 0, fmt.Errorf("calcular stock total: %w", err)
	}
	s.cache.Set(ctx, productoID, total)
	return total, nil
}

// ── Transfers ─────────────────────────────────────────────────────────────────

func (s *inventarioService) Transferir(ctx context.Context, req dto.TransferenciaRequest) error {
	if err := validarTransferencia(req.Cantidad, req.OrigenID, req.DestinoID); err != nil {
		return err
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.existenTx(tx, []uint{req.ProductoID}, req.OrigenID, req.DestinoID); err != nil {
			return err
		}
		return s.TransferirTx(tx, req.ProductoID, req.Cantidad, req.OrigenID, req.DestinoID)
	})
	if err != nil {
		logFallaTransferencia(err, req.ProductoID, req.OrigenID, req.DestinoID)
		return err
	}
	s.NotificarCambios(ctx, req.ProductoID)
	return nil
}

func (s *inventarioService) TransferirLote(ctx context.Context, req dto.TransferenciaLoteRequest) error {
	if len(req.Items) == 0 {
		return errValidacion("la transferencia no tiene productos")
	}
	ids := make([]uint, len(req.Items))
	for i, it := range req.Items {
		if err := validarTransferencia(it.Cantidad, req.OrigenID, req.DestinoID); err != nil {
			return err
		}
		ids[i] = it.ProductoID
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.existenTx(tx, ids, req.OrigenID, req.DestinoID); err != nil {
			return err
		}
		for _, it := range req.Items {
			if err := s.TransferirTx(tx, it.ProductoID, it.Cantidad, req.OrigenID, req.DestinoID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logFallaTransferencia(err, 0, req.OrigenID, req.DestinoID)
		return err
	}
	s.NotificarCambios(ctx, ids...)
	return nil
}

func (s *inventarioService) TransferirTx(tx *gorm.DB, productoID uint, cantidad int, origenID, destinoID uint) error {
	if err := validarTransferencia(cantidad, origenID, destinoID); err != nil {
		return err
	}

	ok, err := s.repo.DecrementarTx(tx, productoID, origenID, cantidad)
	if err != nil {
		return fmt.Errorf("descontar stock: %w", err)
	}
	if !ok {
		disponible := 0
		row, err := s.repo.FindRowTx(tx, productoID, origenID)
		switch {
		case err == nil:
			disponible = row.Stock
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("leer stock de origen: %w", err)
		}
		return &StockInsuficienteError{
			ProductoID:   productoID,
			SubalmacenID: origenID,
			Disponible:   disponible,
			Solicitado:   cantidad,
		}
	}

	if destinoID == model.SumideroVenta {
		return nil
	}
	if err := s.repo.IncrementarTx(tx, productoID, destinoID, cantidad); err != nil {
		return fmt.Errorf("acreditar stock en destino: %w", err)
	}
	return nil
}

func validarTransferencia(cantidad int, origenID, destinoID uint) error {
	if cantidad <= 0 {
		return errValidacion("la cantidad debe ser mayor a cero")
	}
	if origenID == model.SumideroVenta {
		return errValidacion("el subalmacén de origen es obligatorio")
	}
	if origenID == destinoID {
		return ErrMismoSubalmacen
	}
	return nil
}

func logFallaTransferencia(err error, productoID, origenID, destinoID uint) {
	if errors.Is(err, ErrStockInsuficiente) || errors.Is(err, ErrValidacion) ||
		errors.Is(err, ErrMismoSubalmacen) || errors.Is(err, ErrNoEncontrado) {
		return
	}
	log.Error().Err(err).
		Uint("producto_id", productoID).
		Uint("origen_id", origenID).
		Uint("destino_id", destinoID).
		Msg("transferencia: error de almacenamiento")
}

// ── Alerts ────────────────────────────────────────────────────────────────────

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	bajos, err := s.repo.ListBajoMinimo(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar alertas: %w", err)
	}
	resp := make([]dto.AlertaStockResponse, len(bajos))
	for i, b := range bajos {
		resp[i] = dto.AlertaStockResponse{
			ProductoID:  b.ProductoID,
			Codigo:      b.Codigo,
			Nombre:      b.Nombre,
			StockTotal:  b.StockTotal,
			StockMinimo: b.StockMinimo,
		}
	}
	return resp, nil
}

func (s *inventarioService) NotificarCambios(ctx context.Context, productoIDs ...uint) {
	if len(productoIDs) == 0 {
		return
	}
	s.cache.Invalidate(ctx, productoIDs...)
	if s.dispatcher == nil {
		return
	}

	productos, err := s.productoRepo.FindByIDs(ctx, productoIDs)
	if err != nil {
		log.Warn().Err(err).Msg("alertas: no se pudieron leer los productos")
		return
	}
	totales, err := s.repo.TotalesStock(ctx, productoIDs)
	if err != nil {
		log.Warn().Err(err).Msg("alertas: no se pudo calcular el stock total")
		return
	}
	for _, p := range productos {
		total := totales[p.ID]
		if total > p.StockMinimo {
			continue
		}
		err := s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
			ProductoID:  p.ID,
			Codigo:      p.Codigo,
			Nombre:      p.Nombre,
			StockTotal:  total,
			StockMinimo: p.StockMinimo,
		})
		if err != nil {
			log.Warn().Err(err).Uint("producto_id", p.ID).Msg("alertas: enqueue failed")
		}
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *inventarioService) existen(ctx context.Context, productoID, subalmacenID uint) error {
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return notFoundOr(err, "producto", productoID, "buscar producto")
	}
	if _, err := s.subalmacenRepo.FindByID(ctx, subalmacenID); err != nil {
		return notFoundOr(err, "subalmacén", subalmacenID, "buscar subalmacén")
	}
	return nil
}

func (s *inventarioService) existenTx(tx *gorm.DB, productoIDs []uint, origenID, destinoID uint) error {
	for _, id := range productoIDs {
		if _, err := s.productoRepo.FindByIDTx(tx, id); err != nil {
			return notFoundOr(err, "producto", id, "buscar producto")
		}
	}
	if _, err := s.subalmacenRepo.FindByIDTx(tx, origenID); err != nil {
		return notFoundOr(err, "subalmacén", origenID, "buscar subalmacén")
	}
	if destinoID != model.SumideroVenta {
		if _, err := s.subalmacenRepo.FindByIDTx(tx, destinoID); err != nil {
			return notFoundOr(err, "subalmacén", destinoID, "buscar subalmacén")
		}
	}
	return nil
}

// runTx executes fn inside a GORM transaction bound to ctx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
