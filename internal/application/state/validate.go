package state

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return exchange.ValidCode(fl.Field().String())
	})
	return v
}

func checkStruct(p any) error {
	if err := validate.Struct(p); err != nil {
		return domain.Validation(domain.CodeValidation, err.Error())
	}
	return nil
}

// nonNegative valida montos, porcentajes y cantidades: nil se ignora (campos de parche).
func nonNegative(fields map[string]*decimal.Decimal) error {
	for name, v := range fields {
		if v != nil && v.IsNegative() {
			return domain.Validation(domain.CodeValidation, fmt.Sprintf("%s no puede ser negativo", name))
		}
	}
	return nil
}

func positive(name string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return domain.Validation(domain.CodeValidation, name+" debe ser mayor que cero")
	}
	return nil
}

func invalidPayload(a Action) error {
	return domain.Validation(domain.CodeInvalidPayload, a.String())
}

func unknownAction(domainName string, a Action) {
	panic(domain.InvariantViolation{Reason: fmt.Sprintf("acción desconocida %q para %s", a.Type, domainName)})
}

func notFound(what, id string) error {
	return &domain.Error{Code: domain.CodeNotFound, Err: fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)}
}
