package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/infra"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	// Liquidar records a sale and discounts its lines from the seller's
	// warehouse according to the configured settlement policy.
	Liquidar(ctx context.Context, vendedorID uint, req dto.LiquidarVentaRequest) (*dto.LiquidarVentaResponse, error)
	ObtenerVenta(ctx context.Context, id uint) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	// SyncBatch settles each offline sale on its own; one failure does not
	// stop the rest.
	SyncBatch(ctx context.Context, vendedorID uint, req dto.SyncVentasRequest) ([]dto.SyncResultado, error)
	TicketPDF(ctx context.Context, id uint) ([]byte, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	inventario     InventarioService
	inventarioRepo repository.InventarioRepository
	productoRepo   repository.ProductoRepository
	subalmacenRepo repository.SubalmacenRepository
	usuarioRepo    repository.UsuarioRepository
	politica       string
	negocio        string
	now            func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	inventario InventarioService,
	inventarioRepo repository.InventarioRepository,
	productoRepo repository.ProductoRepository,
	subalmacenRepo repository.SubalmacenRepository,
	usuarioRepo repository.UsuarioRepository,
	cfg *config.Config,
) VentaService {
	return &ventaService{
		repo:           repo,
		inventario:     inventario,
		inventarioRepo: inventarioRepo,
		productoRepo:   productoRepo,
		subalmacenRepo: subalmacenRepo,
		usuarioRepo:    usuarioRepo,
		politica:       cfg.SalePolicy,
		negocio:        cfg.BusinessName,
		now:            time.Now,
	}
}

// ── Liquidar ──────────────────────────────────────────────────────────────────
//   1. Deduplicate replayed offline sales
//   2. Resolve the warehouse: request → seller's assignment → main (admins)
//   3. Price every line and validate total / amount tendered
//   4. One transaction: sink-transfer each line, insert the venta
//        atomica: any short line aborts everything, no venta row
//        parcial: short lines are skipped (savepoint per line) and the
//                 venta is stored with estado "parcial"
//   5. After commit: invalidate cached totals, enqueue low-stock alerts

func (s *ventaService) Liquidar(ctx context.Context, vendedorID uint, req dto.LiquidarVentaRequest) (*dto.LiquidarVentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, errValidacion("la venta no tiene productos")
	}
	for _, it := range req.Items {
		if it.Cantidad <= 0 {
			return nil, errValidacion("la cantidad debe ser mayor a cero")
		}
	}

	// 1.
	if req.OfflineID != nil && *req.OfflineID != "" {
		existing, err := s.repo.FindByOfflineID(ctx, *req.OfflineID)
		if err == nil {
			return replayResponse(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("buscar venta offline: %w", err)
		}
	}

	// 2.
	vendedor, err := s.usuarioRepo.FindByID(ctx, vendedorID)
	if err != nil {
		return nil, notFoundOr(err, "usuario", vendedorID, "buscar vendedor")
	}
	subalmacenID, err := s.resolverSubalmacen(ctx, vendedor, req.SubalmacenID)
	if err != nil {
		return nil, err
	}

	// 3.
	items, ids, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	if req.Total != nil && !req.Total.Equal(total) {
		return nil, errValidacion("el total informado (%s) no coincide con el calculado (%s)",
			req.Total.StringFixed(2), total.StringFixed(2))
	}
	if req.PagoCon.LessThan(total) {
		return nil, errValidacion("el pago (%s) es menor al total (%s)", req.PagoCon.StringFixed(2), total.StringFixed(2))
	}

	venta := model.Venta{
		Fecha:        s.now(),
		Items:        items,
		Total:        total,
		PagoCon:      req.PagoCon,
		Cambio:       req.PagoCon.Sub(total),
		SubalmacenID: subalmacenID,
		VendedorID:   vendedor.ID,
		Estado:       model.VentaCompletada,
		OfflineID:    req.OfflineID,
	}

	// 4.
	var fallas []dto.LineaFallida
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		fallas = fallas[:0]
		for i := range venta.Items {
			it := &venta.Items[i]
			stock, err := s.stockTx(tx, it.ProductoID, subalmacenID)
			if err != nil {
				return err
			}
			it.Stock = stock

			if s.politica != config.PoliticaParcial {
				if err := s.inventario.TransferirTx(tx, it.ProductoID, it.Cantidad, subalmacenID, model.SumideroVenta); err != nil {
					return err
				}
				continue
			}

			err = tx.Transaction(func(sp *gorm.DB) error {
				return s.inventario.TransferirTx(sp, it.ProductoID, it.Cantidad, subalmacenID, model.SumideroVenta)
			})
			var insuf *StockInsuficienteError
			if errors.As(err, &insuf) {
				fallas = append(fallas, dto.LineaFallida{
					ProductoID: it.ProductoID,
					Cantidad:   it.Cantidad,
					Disponible: insuf.Disponible,
					Motivo:     insuf.Error(),
				})
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(fallas) > 0 {
			venta.Estado = model.VentaParcial
		}
		return s.repo.CreateTx(tx, &venta)
	})
	if txErr != nil {
		if req.OfflineID != nil && esDuplicado(txErr) {
			// a concurrent replay of the same offline sale won the race
			if existing, err := s.repo.FindByOfflineID(ctx, *req.OfflineID); err == nil {
				return replayResponse(existing), nil
			}
		}
		if !errors.Is(txErr, ErrStockInsuficiente) && !errors.Is(txErr, ErrValidacion) {
			log.Error().Err(txErr).Uint("vendedor_id", vendedor.ID).Uint("subalmacen_id", subalmacenID).
				Msg("venta: no se pudo liquidar")
		}
		return nil, txErr
	}

	// 5.
	s.inventario.NotificarCambios(ctx, ids...)

	ev := log.Info()
	if len(fallas) > 0 {
		ev = log.Warn().Int("lineas_fallidas", len(fallas))
	}
	ev.Uint("venta_id", venta.ID).Uint("subalmacen_id", subalmacenID).
		Str("total", venta.Total.StringFixed(2)).Str("estado", venta.Estado).
		Msg("venta registrada")

	return &dto.LiquidarVentaResponse{
		Venta:   ventaToResponse(&venta),
		Success: len(fallas) == 0,
		Fallas:  fallas,
	}, nil
}

func (s *ventaService) SyncBatch(ctx context.Context, vendedorID uint, req dto.SyncVentasRequest) ([]dto.SyncResultado, error) {
	for _, v := range req.Ventas {
		if v.OfflineID == nil || *v.OfflineID == "" {
			return nil, errValidacion("toda venta sincronizada requiere offline_id")
		}
	}
	out := make([]dto.SyncResultado, len(req.Ventas))
	for i, v := range req.Ventas {
		out[i].OfflineID = *v.OfflineID
		resp, err := s.Liquidar(ctx, vendedorID, v)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			out[i].Error = err.Error()
			continue
		}
		out[i].Resultado = resp
	}
	return out, nil
}

func (s *ventaService) resolverSubalmacen(ctx context.Context, vendedor *model.Usuario, solicitado *uint) (uint, error) {
	var id uint
	switch {
	case !vendedor.EsAdmin() && vendedor.SubalmacenID == nil:
		return 0, ErrSinSubalmacen
	case solicitado != nil && *solicitado != 0:
		if !vendedor.EsAdmin() && *vendedor.SubalmacenID != *solicitado {
			return 0, fmt.Errorf("%w: solo puede vender desde su subalmacén asignado", ErrPermiso)
		}
		id = *solicitado
	case vendedor.SubalmacenID != nil:
		id = *vendedor.SubalmacenID
	default:
		principal, err := s.subalmacenRepo.FindPrincipal(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSinSubalmacen
		}
		if err != nil {
			return 0, fmt.Errorf("buscar almacén principal: %w", err)
		}
		return principal.ID, nil
	}
	if _, err := s.subalmacenRepo.FindByID(ctx, id); err != nil {
		return 0, notFoundOr(err, "subalmacén", id, "buscar subalmacén")
	}
	return id, nil
}

// resolverItems snapshots code, name and price of every line. Lines without
// a price use the catalogue price.
func (s *ventaService) resolverItems(ctx context.Context, req []dto.ItemVentaRequest) ([]model.ItemVenta, []uint, error) {
	ids := make([]uint, 0, len(req))
	seen := make(map[uint]bool, len(req))
	for _, it := range req {
		if !seen[it.ProductoID] {
			seen[it.ProductoID] = true
			ids = append(ids, it.ProductoID)
		}
	}
	productos, err := s.productoRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("buscar productos: %w", err)
	}
	byID := make(map[uint]*model.Producto, len(productos))
	for i := range productos {
		byID[productos[i].ID] = &productos[i]
	}

	items := make([]model.ItemVenta, len(req))
	for i, it := range req {
		p, ok := byID[it.ProductoID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: producto %d", ErrNoEncontrado, it.ProductoID)
		}
		precio := p.Precio
		if it.Precio != nil {
			precio = *it.Precio
		}
		if precio.IsNegative() {
			return nil, nil, errValidacion("el precio de %s no puede ser negativo", p.Nombre)
		}
		items[i] = model.ItemVenta{
			ProductoID: p.ID,
			Codigo:     p.Codigo,
			Nombre:     p.Nombre,
			Precio:     precio,
			Cantidad:   it.Cantidad,
		}
	}
	return items, ids, nil
}

func (s *ventaService) stockTx(tx *gorm.DB, productoID, subalmacenID uint) (int, error) {
	row, err := s.inventarioRepo.FindRowTx(tx, productoID, subalmacenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("leer inventario: %w", err)
	}
	return row.Stock, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "venta", id, "buscar venta")
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	f := repository.VentaFilter{SubalmacenID: filter.SubalmacenID, Page: filter.Page, Limit: filter.Limit}
	if filter.Desde != "" {
		d, err := time.ParseInLocation("2006-01-02", filter.Desde, time.Local)
		if err != nil {
			return nil, errValidacion("fecha desde inválida: %s", filter.Desde)
		}
		f.Desde = d
	}
	if filter.Hasta != "" {
		h, err := time.ParseInLocation("2006-01-02", filter.Hasta, time.Local)
		if err != nil {
			return nil, errValidacion("fecha hasta inválida: %s", filter.Hasta)
		}
		f.Hasta = h.AddDate(0, 0, 1)
	}

	ventas, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	data := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		data[i] = ventaToResponse(&ventas[i])
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ventaService) TicketPDF(ctx context.Context, id uint) ([]byte, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "venta", id, "buscar venta")
	}
	info := infra.TicketInfo{Negocio: s.negocio}
	// names are decoration: a deleted warehouse or seller still prints
	if sub, err := s.subalmacenRepo.FindByID(ctx, v.SubalmacenID); err == nil {
		info.Subalmacen = sub.Nombre
	}
	if u, err := s.usuarioRepo.FindByID(ctx, v.VendedorID); err == nil {
		info.Vendedor = u.Nombre
	}
	return infra.RenderTicketPDF(v, info)
}

func replayResponse(v *model.Venta) *dto.LiquidarVentaResponse {
	return &dto.LiquidarVentaResponse{Venta: ventaToResponse(v), Success: v.Estado == model.VentaCompletada}
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = dto.ItemVentaResponse{
			ProductoID: it.ProductoID,
			Codigo:     it.Codigo,
			Nombre:     it.Nombre,
			Precio:     it.Precio,
			Cantidad:   it.Cantidad,
			Subtotal:   it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))),
		}
	}
	return dto.VentaResponse{
		ID:           v.ID,
		Fecha:        v.Fecha,
		Items:        items,
		Total:        v.Total,
		PagoCon:      v.PagoCon,
		Cambio:       v.Cambio,
		SubalmacenID: v.SubalmacenID,
		VendedorID:   v.VendedorID,
		Estado:       v.Estado,
		OfflineID:    v.OfflineID,
	}
}
