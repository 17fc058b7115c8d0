package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"

	"gorm.io/gorm"
)

// MovimientoService records manual stock adjustments (goods received, losses,
// corrections). Each one goes through the same guarded ledger updates as
// transfers and is audited in movimientos_inventario.
type MovimientoService interface {
	Registrar(ctx context.Context, req dto.RegistrarMovimientoRequest) ([]dto.MovimientoResponse, error)
	Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type movimientoService struct {
	repo           repository.MovimientoRepository
	inventarioRepo repository.InventarioRepository
	productoRepo   repository.ProductoRepository
	subalmacenRepo repository.SubalmacenRepository
	inventario     InventarioService
	now            func() time.Time
}

func NewMovimientoService(
	repo repository.MovimientoRepository,
	inventarioRepo repository.InventarioRepository,
	productoRepo repository.ProductoRepository,
	subalmacenRepo repository.SubalmacenRepository,
	inventario InventarioService,
) MovimientoService {
	return &movimientoService{
		repo:           repo,
		inventarioRepo: inventarioRepo,
		productoRepo:   productoRepo,
		subalmacenRepo: subalmacenRepo,
		inventario:     inventario,
		now:            time.Now,
	}
}

// Registrar applies every line of the batch or none of them.
func (s *movimientoService) Registrar(ctx context.Context, req dto.RegistrarMovimientoRequest) ([]dto.MovimientoResponse, error) {
	if req.Tipo != model.MovimientoEntrada && req.Tipo != model.MovimientoSalida {
		return nil, errValidacion("tipo de movimiento inválido: %q", req.Tipo)
	}
	if len(req.Items) == 0 {
		return nil, errValidacion("el movimiento no tiene productos")
	}
	for _, it := range req.Items {
		if it.Cantidad <= 0 {
			return nil, errValidacion("la cantidad debe ser mayor a cero")
		}
	}

	fecha := s.now()
	movs := make([]model.MovimientoInventario, 0, len(req.Items))
	ids := make([]uint, 0, len(req.Items))
	err := runTx(ctx, s.inventarioRepo.DB(), func(tx *gorm.DB) error {
		if _, err := s.subalmacenRepo.FindByIDTx(tx, req.SubalmacenID); err != nil {
			return notFoundOr(err, "subalmacén", req.SubalmacenID, "buscar subalmacén")
		}
		for _, it := range req.Items {
			if _, err := s.productoRepo.FindByIDTx(tx, it.ProductoID); err != nil {
				return notFoundOr(err, "producto", it.ProductoID, "buscar producto")
			}
			anterior, err := s.stockTx(tx, it.ProductoID, req.SubalmacenID)
			if err != nil {
				return err
			}

			nuevo := anterior + it.Cantidad
			if req.Tipo == model.MovimientoEntrada {
				err = s.inventarioRepo.IncrementarTx(tx, it.ProductoID, req.SubalmacenID, it.Cantidad)
			} else {
				nuevo = anterior - it.Cantidad
				var ok bool
				ok, err = s.inventarioRepo.DecrementarTx(tx, it.ProductoID, req.SubalmacenID, it.Cantidad)
				if err == nil && !ok {
					return &StockInsuficienteError{
						ProductoID:   it.ProductoID,
						SubalmacenID: req.SubalmacenID,
						Disponible:   anterior,
						Solicitado:   it.Cantidad,
					}
				}
			}
			if err != nil {
				return fmt.Errorf("actualizar inventario: %w", err)
			}

			mov := model.MovimientoInventario{
				Fecha:         fecha,
				ProductoID:    it.ProductoID,
				SubalmacenID:  req.SubalmacenID,
				Cantidad:      it.Cantidad,
				Tipo:          req.Tipo,
				StockAnterior: anterior,
				StockNuevo:    nuevo,
				Descripcion:   req.Descripcion,
				DocumentoRef:  req.DocumentoRef,
			}
			if err := s.repo.CreateTx(tx, &mov); err != nil {
				return fmt.Errorf("registrar movimiento: %w", err)
			}
			movs = append(movs, mov)
			ids = append(ids, it.ProductoID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.inventario.NotificarCambios(ctx, ids...)

	resp := make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		resp[i] = movimientoToResponse(&movs[i])
	}
	return resp, nil
}

func (s *movimientoService) stockTx(tx *gorm.DB, productoID, subalmacenID uint) (int, error) {
	row, err := s.inventarioRepo.FindRowTx(tx, productoID, subalmacenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("leer inventario: %w", err)
	}
	return row.Stock, nil
}

func (s *movimientoService) Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	movs, total, err := s.repo.List(ctx, repository.MovimientoFilter{
		SubalmacenID: filter.SubalmacenID,
		ProductoID:   filter.ProductoID,
		Tipo:         filter.Tipo,
		Page:         filter.Page,
		Limit:        filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	data := make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		data[i] = movimientoToResponse(&movs[i])
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func movimientoToResponse(m *model.MovimientoInventario) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:            m.ID,
		Fecha:         m.Fecha,
		ProductoID:    m.ProductoID,
		SubalmacenID:  m.SubalmacenID,
		Cantidad:      m.Cantidad,
		Tipo:          m.Tipo,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Descripcion:   m.Descripcion,
		DocumentoRef:  m.DocumentoRef,
	}
}
