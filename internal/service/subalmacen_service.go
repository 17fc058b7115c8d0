package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SubalmacenService interface {
	// AsegurarPrincipal resolves the main warehouse once at startup.
	AsegurarPrincipal(ctx context.Context, preferidoID uint) (*model.Subalmacen, error)
	Crear(ctx context.Context, req dto.SubalmacenRequest) (*dto.SubalmacenResponse, error)
	Listar(ctx context.Context) ([]dto.SubalmacenResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.SubalmacenResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.SubalmacenRequest) (*dto.SubalmacenResponse, error)
	// Eliminar deletes the warehouse with its inventory rows and unassigns
	// its users. The main warehouse cannot be deleted.
	Eliminar(ctx context.Context, id uint) error
}

type subalmacenService struct {
	repo           repository.SubalmacenRepository
	inventarioRepo repository.InventarioRepository
	usuarioRepo    repository.UsuarioRepository
	inventario     InventarioService
}

func NewSubalmacenService(
	repo repository.SubalmacenRepository,
	inventarioRepo repository.InventarioRepository,
	usuarioRepo repository.UsuarioRepository,
	inventario InventarioService,
) SubalmacenService {
	return &subalmacenService{
		repo:           repo,
		inventarioRepo: inventarioRepo,
		usuarioRepo:    usuarioRepo,
		inventario:     inventario,
	}
}

// AsegurarPrincipal flags preferidoID as the main warehouse when it exists.
// Otherwise an already flagged warehouse is kept, and on an empty database
// "Almacén Principal" is created.
func (s *subalmacenService) AsegurarPrincipal(ctx context.Context, preferidoID uint) (*model.Subalmacen, error) {
	preferido, err := s.repo.FindByID(ctx, preferidoID)
	switch {
	case err == nil:
		if !preferido.EsPrincipal {
			if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
				return s.repo.MarcarPrincipalTx(tx, preferido.ID)
			}); err != nil {
				return nil, fmt.Errorf("marcar almacén principal: %w", err)
			}
			preferido.EsPrincipal = true
		}
		return preferido, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("buscar subalmacén: %w", err)
	}

	actual, err := s.repo.FindPrincipal(ctx)
	if err == nil {
		log.Warn().Uint("configurado", preferidoID).Uint("principal", actual.ID).
			Msg("subalmacén principal configurado no existe; se conserva el actual")
		return actual, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("buscar almacén principal: %w", err)
	}

	nuevo := &model.Subalmacen{Nombre: "Almacén Principal", EsPrincipal: true}
	if err := s.repo.Create(ctx, nuevo); err != nil {
		return nil, fmt.Errorf("crear almacén principal: %w", err)
	}
	log.Info().Uint("id", nuevo.ID).Msg("almacén principal creado")
	return nuevo, nil
}

func (s *subalmacenService) Crear(ctx context.Context, req dto.SubalmacenRequest) (*dto.SubalmacenResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, errValidacion("el nombre es obligatorio")
	}
	sub := &model.Subalmacen{Nombre: nombre, Direccion: req.Direccion, Descripcion: req.Descripcion}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("crear subalmacén: %w", err)
	}
	return subalmacenToResponse(sub), nil
}

func (s *subalmacenService) Listar(ctx context.Context) ([]dto.SubalmacenResponse, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar subalmacenes: %w", err)
	}
	resp := make([]dto.SubalmacenResponse, len(subs))
	for i := range subs {
		resp[i] = *subalmacenToResponse(&subs[i])
	}
	return resp, nil
}

func (s *subalmacenService) ObtenerPorID(ctx context.Context, id uint) (*dto.SubalmacenResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subalmacén", id, "buscar subalmacén")
	}
	return subalmacenToResponse(sub), nil
}

func (s *subalmacenService) Actualizar(ctx context.Context, id uint, req dto.SubalmacenRequest) (*dto.SubalmacenResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subalmacén", id, "buscar subalmacén")
	}
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, errValidacion("el nombre es obligatorio")
	}
	sub.Nombre = nombre
	sub.Direccion = req.Direccion
	sub.Descripcion = req.Descripcion
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("actualizar subalmacén: %w", err)
	}
	return subalmacenToResponse(sub), nil
}

func (s *subalmacenService) Eliminar(ctx context.Context, id uint) error {
	var afectados []uint
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sub, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFoundOr(err, "subalmacén", id, "buscar subalmacén")
		}
		if sub.EsPrincipal {
			return errConflicto("el almacén principal no se puede eliminar")
		}
		if afectados, err = s.inventarioRepo.ProductoIDsBySubalmacenTx(tx, id); err != nil {
			return fmt.Errorf("leer inventario: %w", err)
		}
		if err := s.inventarioRepo.DeleteBySubalmacenTx(tx, id); err != nil {
			return fmt.Errorf("eliminar inventario: %w", err)
		}
		if err := s.usuarioRepo.ClearSubalmacenTx(tx, id); err != nil {
			return fmt.Errorf("desasignar usuarios: %w", err)
		}
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return fmt.Errorf("eliminar subalmacén: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.inventario.NotificarCambios(ctx, afectados...)
	return nil
}

func subalmacenToResponse(s *model.Subalmacen) *dto.SubalmacenResponse {
	return &dto.SubalmacenResponse{
		ID:          s.ID,
		Nombre:      s.Nombre,
		Direccion:   s.Direccion,
		Descripcion: s.Descripcion,
		EsPrincipal: s.EsPrincipal,
	}
}
