package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"

	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type productoService struct {
	repo           repository.ProductoRepository
	inventarioRepo repository.InventarioRepository
	subalmacenRepo repository.SubalmacenRepository
	inventario     InventarioService
}

func NewProductoService(
	repo repository.ProductoRepository,
	inventarioRepo repository.InventarioRepository,
	subalmacenRepo repository.SubalmacenRepository,
	inventario InventarioService,
) ProductoService {
	return &productoService{
		repo:           repo,
		inventarioRepo: inventarioRepo,
		subalmacenRepo: subalmacenRepo,
		inventario:     inventario,
	}
}

// Crear stores the product and, when StockInicial > 0, its row in the main
// warehouse, both in one transaction.
func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	codigo := strings.TrimSpace(req.Codigo)
	if codigo == "" {
		return nil, errValidacion("el código es obligatorio")
	}
	if req.Precio.IsNegative() || req.Costo.IsNegative() {
		return nil, errValidacion("precio y costo no pueden ser negativos")
	}
	if req.StockInicial < 0 || req.StockMinimo < 0 {
		return nil, errValidacion("el stock no puede ser negativo")
	}
	if _, err := s.repo.FindByCodigo(ctx, codigo); err == nil {
		return nil, errConflicto("ya existe un producto con el código %s", codigo)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}

	var principalID uint
	if req.StockInicial > 0 {
		principal, err := s.subalmacenRepo.FindPrincipal(ctx)
		if err != nil {
			return nil, notFoundOr(err, "subalmacén", "principal", "buscar almacén principal")
		}
		principalID = principal.ID
	}

	p := &model.Producto{
		Codigo:      codigo,
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Categoria:   req.Categoria,
		Precio:      req.Precio,
		Costo:       req.Costo,
		Stock:       req.StockInicial,
		StockMinimo: req.StockMinimo,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		if principalID == 0 {
			return nil
		}
		return s.inventarioRepo.SetRowTx(tx, p.ID, principalID, req.StockInicial)
	})
	if err != nil {
		if esDuplicado(err) {
			return nil, errConflicto("ya existe un producto con el código %s", codigo)
		}
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	s.inventario.NotificarCambios(ctx, p.ID)
	return productoToResponse(p, req.StockInicial), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "producto", id, "buscar producto")
	}
	total, err := s.inventario.StockTotal(ctx, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p, total), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	ids := make([]uint, len(productos))
	for i, p := range productos {
		ids[i] = p.ID
	}
	totales, err := s.inventarioRepo.TotalesStock(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("calcular stock total: %w", err)
	}

	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = *productoToResponse(&productos[i], totales[productos[i].ID])
	}
	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pages,
	}, nil
}

// Actualizar never changes the code.
func (s *productoService) Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "producto", id, "buscar producto")
	}
	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		p.Descripcion = *req.Descripcion
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.Costo != nil {
		p.Costo = *req.Costo
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if p.Precio.IsNegative() || p.Costo.IsNegative() {
		return nil, errValidacion("precio y costo no pueden ser negativos")
	}
	if p.StockMinimo < 0 {
		return nil, errValidacion("el stock mínimo no puede ser negativo")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	total, err := s.inventario.StockTotal(ctx, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p, total), nil
}

// Eliminar removes the product together with its inventory rows. Past sales
// keep their own copy of the product's code and name.
func (s *productoService) Eliminar(ctx context.Context, id uint) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDTx(tx, id); err != nil {
			return notFoundOr(err, "producto", id, "buscar producto")
		}
		if err := s.inventarioRepo.DeleteByProductoTx(tx, id); err != nil {
			return fmt.Errorf("eliminar inventario: %w", err)
		}
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return fmt.Errorf("eliminar producto: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.inventario.NotificarCambios(ctx, id)
	return nil
}

func productoToResponse(p *model.Producto, stockTotal int) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Categoria:   p.Categoria,
		Precio:      p.Precio.Round(2),
		Costo:       p.Costo.Round(2),
		StockMinimo: p.StockMinimo,
		StockTotal:  stockTotal,
	}
}
