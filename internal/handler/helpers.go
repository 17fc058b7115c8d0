package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/apierror"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/middleware"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal validates as a float so min=0 and required work on it.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs the validator tags.
// On false the response is already written.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido: "+name))
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors to HTTP statuses. Anything unrecognized is
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var insuf *service.StockInsuficienteError
	switch {
	case errors.As(err, &insuf):
		c.JSON(http.StatusConflict, apierror.NewStock(insuf.Error(), insuf.ProductoID, insuf.SubalmacenID, insuf.Disponible, insuf.Solicitado))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrStockInsuficiente), errors.Is(err, service.ErrConflicto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidacion), errors.Is(err, service.ErrMismoSubalmacen):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSinSubalmacen):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredenciales):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPermiso):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("error interno")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

// puedeVerSubalmacen reports whether the caller may read warehouse id:
// admins see every warehouse, trabajadores only their own.
func puedeVerSubalmacen(claims *middleware.JWTClaims, id uint) bool {
	if claims == nil {
		return false
	}
	if claims.Rol == model.RolAdmin {
		return true
	}
	return claims.SubalmacenID != nil && *claims.SubalmacenID == id
}
