package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Desde        string `form:"desde"` // YYYY-MM-DD, inclusive
	Hasta        string `form:"hasta"` // YYYY-MM-DD, inclusive
	SubalmacenID uint   `form:"subalmacen_id"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest: Precio is optional and defaults to the catalogue price.
type ItemVentaRequest struct {
	ProductoID uint             `json:"producto_id" validate:"required"`
	Cantidad   int              `json:"cantidad"    validate:"required,min=1"`
	Precio     *decimal.Decimal `json:"precio"`
}

type LiquidarVentaRequest struct {
	Items   []ItemVentaRequest `json:"items"    validate:"required,min=1,dive"`
	PagoCon decimal.Decimal    `json:"pago_con" validate:"min=0"`
	// Total is optional; when sent it must match the sum of the lines.
	Total *decimal.Decimal `json:"total"`
	// SubalmacenID overrides the seller's warehouse (admins only).
	SubalmacenID *uint `json:"subalmacen_id"`
	// OfflineID is set by clients replaying a sale created while offline.
	OfflineID *string `json:"offline_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID uint            `json:"producto_id"`
	Codigo     string          `json:"codigo"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Cantidad   int             `json:"cantidad"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID           uint                `json:"id"`
	Fecha        time.Time           `json:"fecha"`
	Items        []ItemVentaResponse `json:"items"`
	Total        decimal.Decimal     `json:"total"`
	PagoCon      decimal.Decimal     `json:"pago_con"`
	Cambio       decimal.Decimal     `json:"cambio"`
	SubalmacenID uint                `json:"subalmacen_id"`
	VendedorID   uint                `json:"vendedor_id"`
	Estado       string              `json:"estado"`
	OfflineID    *string             `json:"offline_id,omitempty"`
}

// LineaFallida describes a line whose stock could not be discounted under
// the partial settlement policy.
type LineaFallida struct {
	ProductoID uint   `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
	Disponible int    `json:"disponible"`
	Motivo     string `json:"motivo"`
}

type LiquidarVentaResponse struct {
	Venta   VentaResponse  `json:"venta"`
	Success bool           `json:"success"`
	Fallas  []LineaFallida `json:"fallas,omitempty"`
}

// ─── Offline sync ────────────────────────────────────────────────────────────

// SyncVentasRequest replays sales recorded while a register was offline.
// Every sale must carry its offline_id so replays are idempotent.
type SyncVentasRequest struct {
	Ventas []LiquidarVentaRequest `json:"ventas" validate:"required,min=1,max=100,dive"`
}

// SyncResultado is the outcome of one replayed sale; Error is set instead of
// Resultado when it could not be settled.
type SyncResultado struct {
	OfflineID string                 `json:"offline_id"`
	Resultado *LiquidarVentaResponse `json:"resultado,omitempty"`
	Error     string                 `json:"error,omitempty"`
}
