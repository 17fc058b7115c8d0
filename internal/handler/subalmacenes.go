package handler

import (
	"net/http"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/apierror"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/middleware"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type SubalmacenesHandler struct {
	svc        service.SubalmacenService
	inventario service.InventarioService
}

func NewSubalmacenesHandler(svc service.SubalmacenService, inventario service.InventarioService) *SubalmacenesHandler {
	return &SubalmacenesHandler{svc: svc, inventario: inventario}
}

func (h *SubalmacenesHandler) Crear(c *gin.Context) {
	var req dto.SubalmacenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SubalmacenesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubalmacenesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubalmacenesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.SubalmacenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubalmacenesHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Inventario lists the warehouse's catalogue with per-row stock.
// Trabajadores may only read their own warehouse.
func (h *SubalmacenesHandler) Inventario(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if !puedeVerSubalmacen(middleware.GetClaims(c), id) {
		c.JSON(http.StatusForbidden, apierror.New("Solo puede consultar su subalmacen asignado"))
		return
	}
	var filter dto.InventarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.inventario.InventarioSubalmacen(c.Request.Context(), id, filter.SoloConStock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
