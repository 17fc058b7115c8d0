package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,min=1,max=40"`
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=120"`
	Descripcion string          `json:"descripcion"  validate:"max=500"`
	Categoria   string          `json:"categoria"    validate:"max=60"`
	Precio      decimal.Decimal `json:"precio"       validate:"required"`
	Costo       decimal.Decimal `json:"costo"`
	// StockInicial is placed in the main warehouse.
	StockInicial int `json:"stock_inicial" validate:"min=0"`
	StockMinimo  int `json:"stock_minimo"  validate:"min=0"`
}

// ActualizarProductoRequest has no Codigo: the code is immutable once created.
type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2,max=120"`
	Descripcion *string          `json:"descripcion"  validate:"omitempty,max=500"`
	Categoria   *string          `json:"categoria"    validate:"omitempty,max=60"`
	Precio      *decimal.Decimal `json:"precio"`
	Costo       *decimal.Decimal `json:"costo"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Codigo    string `form:"codigo"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          uint            `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Categoria   string          `json:"categoria"`
	Precio      decimal.Decimal `json:"precio"`
	Costo       decimal.Decimal `json:"costo"`
	StockMinimo int             `json:"stock_minimo"`
	// StockTotal is the sum of every warehouse row.
	StockTotal int `json:"stock_total"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type StockTotalResponse struct {
	ProductoID uint `json:"producto_id"`
	StockTotal int  `json:"stock_total"`
}

// ConsultaPrecioResponse is the public price-check answer for a scanned code.
type ConsultaPrecioResponse struct {
	Codigo     string          `json:"codigo"`
	Nombre     string          `json:"nombre"`
	Categoria  string          `json:"categoria"`
	Precio     decimal.Decimal `json:"precio"`
	StockTotal int             `json:"stock_total"`
}
