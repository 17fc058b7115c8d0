package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/apierror"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ConsultaPreciosHandler serves the public price check used by the
// scanner stations. It never mutates anything.
type ConsultaPreciosHandler struct {
	repo       repository.ProductoRepository
	inventario service.InventarioService
}

func NewConsultaPreciosHandler(repo repository.ProductoRepository, inventario service.InventarioService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{repo: repo, inventario: inventario}
}

func (h *ConsultaPreciosHandler) PorCodigo(c *gin.Context) {
	codigo := strings.TrimSpace(c.Param("codigo"))
	ctx := c.Request.Context()

	producto, err := h.repo.FindByCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	// total goes through the stock cache when Redis is configured
	total, err := h.inventario.StockTotal(ctx, producto.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ConsultaPrecioResponse{
		Codigo:     producto.Codigo,
		Nombre:     producto.Nombre,
		Categoria:  producto.Categoria,
		Precio:     producto.Precio,
		StockTotal: total,
	})
}
