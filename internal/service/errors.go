package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors. Handlers map them to HTTP statuses with errors.Is; any
// other error is a storage failure.
var (
	ErrNoEncontrado      = errors.New("recurso no encontrado")
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrSinSubalmacen     = errors.New("el usuario no tiene un subalmacén asignado")
	ErrMismoSubalmacen   = errors.New("el subalmacén de origen y destino no pueden ser el mismo")
	ErrValidacion        = errors.New("datos inválidos")
	ErrConflicto         = errors.New("conflicto con el estado actual")
	ErrCredenciales      = errors.New("credenciales inválidas")
	ErrPermiso           = errors.New("permisos insuficientes")
)

// StockInsuficienteError reports how many units were actually available.
// errors.Is(err, ErrStockInsuficiente) holds for it.
type StockInsuficienteError struct {
	ProductoID   uint
	SubalmacenID uint
	Disponible   int
	Solicitado   int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente del producto %d en el subalmacén %d: disponible %d, solicitado %d",
		e.ProductoID, e.SubalmacenID, e.Disponible, e.Solicitado)
}

func (e *StockInsuficienteError) Is(target error) bool { return target == ErrStockInsuficiente }

func errValidacion(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidacion, fmt.Sprintf(format, args...))
}

func errConflicto(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflicto, fmt.Sprintf(format, args...))
}

// notFoundOr turns gorm.ErrRecordNotFound into ErrNoEncontrado naming the
// missing entity, and wraps anything else as a storage error for op.
func notFoundOr(err error, entidad string, id any, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v", ErrNoEncontrado, entidad, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func esDuplicado(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
