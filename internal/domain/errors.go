package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrNoChange        = errors.New("sin cambios respecto al estado actual")
	ErrInUse           = errors.New("recurso referenciado por otros registros")
	ErrRateRejected    = errors.New("tasa de cambio rechazada")
	ErrTooManyRequests = errors.New("demasiadas solicitudes en el mismo instante")
	ErrInvariant       = errors.New("violación de invariante")
)

// Code identifica un error para la capa de presentación (que lo traduce a un mensaje localizado).
type Code string

const (
	CodeValidation             Code = "VALIDATION"
	CodeInvalidPayload         Code = "INVALID_PAYLOAD"
	CodeNotFound               Code = "NOT_FOUND"
	CodeNoChange               Code = "NO_CHANGE"
	CodeInvalidCurrency        Code = "INVALID_CURRENCY"
	CodeInvalidDefaultCurrency Code = "INVALID_DEFAULT_CURRENCY"
	CodeInvalidRate            Code = "INVALID_RATE"
	CodeTooSoon                Code = "TOO_SOON"
	CodeTooManyRequests        Code = "TOO_MANY_REQUESTS"
	CodeMaterialInUse          Code = "MATERIAL_IN_USE"
	CodeRecipeInUse            Code = "RECIPE_IN_USE"
	CodePackageInUse           Code = "PACKAGE_IN_USE"
)

// Error es el error con código que devuelven las transiciones de estado.
// Count solo se usa en errores de integridad referencial (número de dependientes).
type Error struct {
	Code  Code
	Count int
	Err   error
}

func (e *Error) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("%s (%d): %v", e.Code, e.Count, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError construye un error con código sobre un error base.
func NewError(code Code, base error) *Error {
	return &Error{Code: code, Err: base}
}

// Validation crea un ValidationError con detalle.
func Validation(code Code, detail string) *Error {
	return &Error{Code: code, Err: fmt.Errorf("%w: %s", ErrInvalidInput, detail)}
}

// InUse crea un error de integridad referencial con el número de dependientes.
func InUse(code Code, count int) *Error {
	return &Error{Code: code, Count: count, Err: ErrInUse}
}

// NoChange es el error suave de "nada que escribir".
func NoChange() *Error {
	return &Error{Code: CodeNoChange, Err: ErrNoChange}
}

// CodeOf extrae el código de un error (vacío si no es *Error).
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsSoft indica si el error es un NO_CHANGE (omisión, no falla).
func IsSoft(err error) bool {
	return errors.Is(err, ErrNoChange)
}

// InvariantViolation representa un error de programación o configuración.
// Se propaga con panic; no es un error de usuario.
type InvariantViolation struct {
	Reason string
}

func (v InvariantViolation) Error() string {
	return "violación de invariante: " + v.Reason
}

func (v InvariantViolation) Unwrap() error { return ErrInvariant }
