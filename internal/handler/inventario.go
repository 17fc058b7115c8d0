package handler

import (
	"net/http"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	svc         service.InventarioService
	movimientos service.MovimientoService
}

func NewInventarioHandler(svc service.InventarioService, movimientos service.MovimientoService) *InventarioHandler {
	return &InventarioHandler{svc: svc, movimientos: movimientos}
}

// ── Transferencias ───────────────────────────────────────────────────────────

func (h *InventarioHandler) Transferir(c *gin.Context) {
	var req dto.TransferenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Transferir(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TransferenciaResponse{Success: true})
}

func (h *InventarioHandler) TransferirLote(c *gin.Context) {
	var req dto.TransferenciaLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.TransferirLote(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TransferenciaResponse{Success: true})
}

// ── Filas del ledger ─────────────────────────────────────────────────────────

func (h *InventarioHandler) ObtenerFila(c *gin.Context) {
	productoID, ok := paramID(c, "producto_id")
	if !ok {
		return
	}
	subalmacenID, ok := paramID(c, "subalmacen_id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerFila(c.Request.Context(), productoID, subalmacenID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FijarStock overwrites a row with an absolute count (physical recount).
func (h *InventarioHandler) FijarStock(c *gin.Context) {
	productoID, ok := paramID(c, "producto_id")
	if !ok {
		return
	}
	subalmacenID, ok := paramID(c, "subalmacen_id")
	if !ok {
		return
	}
	var req dto.SetStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FijarStock(c.Request.Context(), productoID, subalmacenID, req.Stock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Movimientos ──────────────────────────────────────────────────────────────

func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.movimientos.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.movimientos.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	resp, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
