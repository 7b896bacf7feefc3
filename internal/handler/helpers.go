package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/juliohebert/loja-sub002/internal/apierror"
	"github.com/juliohebert/loja-sub002/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report json keys in validation envelopes so clients see the same field
	// names they sent (cliente_telefone, not ClienteTelefone) — matching the
	// keys the service layer uses in its own field maps.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a domain error kind to its HTTP status. Infra errors are
// logged upstream and surfaced without internal detail.
func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
		return
	}

	switch de.Kind {
	case domain.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(de.Fields))
	case domain.KindSessionNotFound, domain.KindOrderNotFound:
		c.JSON(http.StatusNotFound, apierror.New(de.Message))
	case domain.KindSessionAlreadyOpen, domain.KindSessionAlreadyClosed, domain.KindInvalidTransition:
		c.JSON(http.StatusConflict, apierror.New(de.Message))
	case domain.KindInfra:
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(de.Message))
	}
}
