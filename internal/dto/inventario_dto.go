package dto

import "time"

// ─── Transferencias ─────────────────────────────────────────────────────────

// TransferenciaRequest moves Cantidad units between warehouses. DestinoID 0
// consumes the units (sale sink).
type TransferenciaRequest struct {
	ProductoID uint `json:"producto_id" validate:"required"`
	Cantidad   int  `json:"cantidad"    validate:"required,min=1"`
	OrigenID   uint `json:"origen_id"   validate:"required"`
	DestinoID  uint `json:"destino_id"`
}

type ItemTransferencia struct {
	ProductoID uint `json:"producto_id" validate:"required"`
	Cantidad   int  `json:"cantidad"    validate:"required,min=1"`
}

// TransferenciaLoteRequest moves several products between the same pair of
// warehouses in one all-or-nothing operation.
type TransferenciaLoteRequest struct {
	OrigenID  uint                `json:"origen_id"  validate:"required"`
	DestinoID uint                `json:"destino_id" validate:"required"`
	Items     []ItemTransferencia `json:"items"      validate:"required,min=1,dive"`
}

type TransferenciaResponse struct {
	Success bool `json:"success"`
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

type InventarioFilter struct {
	SoloConStock bool `form:"solo_con_stock"`
}

// InventarioItemResponse is one row of a warehouse-scoped catalogue.
type InventarioItemResponse struct {
	ProductoID  uint   `json:"producto_id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Categoria   string `json:"categoria"`
	Precio      string `json:"precio"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
}

type InventarioRowResponse struct {
	ProductoID   uint `json:"producto_id"`
	SubalmacenID uint `json:"subalmacen_id"`
	Stock        int  `json:"stock"`
	// Existe is false when no row is stored (implicit zero).
	Existe bool `json:"existe"`
}

type SetStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

// ─── Movimientos ────────────────────────────────────────────────────────────

type ItemMovimiento struct {
	ProductoID uint `json:"producto_id" validate:"required"`
	Cantidad   int  `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarMovimientoRequest struct {
	SubalmacenID uint             `json:"subalmacen_id" validate:"required"`
	Tipo         string           `json:"tipo"          validate:"required,oneof=entrada salida"`
	Descripcion  string           `json:"descripcion"   validate:"max=255"`
	DocumentoRef string           `json:"documento_ref" validate:"max=60"`
	Items        []ItemMovimiento `json:"items"         validate:"required,min=1,dive"`
}

type MovimientoFilter struct {
	SubalmacenID uint   `form:"subalmacen_id"`
	ProductoID   uint   `form:"producto_id"`
	Tipo         string `form:"tipo"           validate:"omitempty,oneof=entrada salida"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoResponse struct {
	ID            uint      `json:"id"`
	Fecha         time.Time `json:"fecha"`
	ProductoID    uint      `json:"producto_id"`
	SubalmacenID  uint      `json:"subalmacen_id"`
	Cantidad      int       `json:"cantidad"`
	Tipo          string    `json:"tipo"`
	StockAnterior int       `json:"stock_anterior"`
	StockNuevo    int       `json:"stock_nuevo"`
	Descripcion   string    `json:"descripcion"`
	DocumentoRef  string    `json:"documento_ref"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Alertas ────────────────────────────────────────────────────────────────

type AlertaStockResponse struct {
	ProductoID  uint   `json:"producto_id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	StockTotal  int    `json:"stock_total"`
	StockMinimo int    `json:"stock_minimo"`
}
