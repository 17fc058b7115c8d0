// Package apierror holds the JSON error envelopes returned by the API.
// Handlers never put raw DB or driver errors in these.
package apierror

// APIError is the canonical error envelope for 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps per-field validator failures.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// StockError is returned with 409 when a warehouse row cannot cover a
// requested quantity.
type StockError struct {
	Detail       string `json:"detail"`
	ProductoID   uint   `json:"producto_id"`
	SubalmacenID uint   `json:"subalmacen_id"`
	Disponible   int    `json:"disponible"`
	Solicitado   int    `json:"solicitado"`
}

func NewStock(msg string, productoID, subalmacenID uint, disponible, solicitado int) *StockError {
	return &StockError{
		Detail:       msg,
		ProductoID:   productoID,
		SubalmacenID: subalmacenID,
		Disponible:   disponible,
		Solicitado:   solicitado,
	}
}
