package handler

import (
	"net/http"
	"strconv"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/apierror"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/middleware"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Liquidar settles a sale for the authenticated seller. A sale stored under
// the partial policy still answers 201, with success=false and the failed
// lines listed.
func (h *VentasHandler) Liquidar(c *gin.Context) {
	var req dto.LiquidarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Liquidar(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarVentas pins trabajadores to their own warehouse regardless of the
// subalmacen_id they send.
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims.Rol != model.RolAdmin {
		if claims.SubalmacenID == nil {
			respondError(c, service.ErrSinSubalmacen)
			return
		}
		filter.SubalmacenID = *claims.SubalmacenID
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	venta, ok := h.ventaVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, venta)
}

// Ticket streams the printable receipt as application/pdf.
func (h *VentasHandler) Ticket(c *gin.Context) {
	venta, ok := h.ventaVisible(c)
	if !ok {
		return
	}
	pdf, err := h.svc.TicketPDF(c.Request.Context(), venta.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=ticket-"+strconv.FormatUint(uint64(venta.ID), 10)+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *VentasHandler) SyncBatch(c *gin.Context) {
	var req dto.SyncVentasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.SyncBatch(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ventaVisible loads the :id sale and checks the caller may see it.
func (h *VentasHandler) ventaVisible(c *gin.Context) (*dto.VentaResponse, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	venta, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !puedeVerSubalmacen(middleware.GetClaims(c), venta.SubalmacenID) {
		c.JSON(http.StatusForbidden, apierror.New("La venta pertenece a otro subalmacen"))
		return nil, false
	}
	return venta, true
}
