package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrContention        = errors.New("recurso ocupado, reintente")
)

// Kind clasifica los errores que el motor de inventario devuelve al llamador.
type Kind string

const (
	KindValidation           Kind = "VALIDATION"
	KindNotFound             Kind = "NOT_FOUND"
	KindInvalidCustomer      Kind = "INVALID_CUSTOMER"
	KindDuplicateCode        Kind = "DUPLICATE_CODE"
	KindSaleBlockedClosedDay Kind = "SALE_BLOCKED_CLOSED_DAY"
	KindInsufficientStock    Kind = "INSUFFICIENT_STOCK"
	KindNotInSale            Kind = "NOT_IN_SALE"
	KindNotInPurchase        Kind = "NOT_IN_PURCHASE"
	KindOverReturn           Kind = "OVER_RETURN"
	KindNoPendingSales       Kind = "NO_PENDING_SALES"
	KindContention           Kind = "CONTENTION"
	KindInternal             Kind = "INTERNAL"
)

// Class agrupa los Kind: validación, regla de negocio o infraestructura.
type Class string

const (
	ClassValidation     Class = "validation"
	ClassBusiness       Class = "business"
	ClassInfrastructure Class = "infrastructure"
)

// Class devuelve la categoría del Kind.
func (k Kind) Class() Class {
	switch k {
	case KindValidation, KindNotFound, KindInvalidCustomer, KindDuplicateCode:
		return ClassValidation
	case KindSaleBlockedClosedDay, KindInsufficientStock, KindNotInSale,
		KindNotInPurchase, KindOverReturn, KindNoPendingSales:
		return ClassBusiness
	default:
		return ClassInfrastructure
	}
}

// sentinel relaciona cada Kind con el error base compatible con errors.Is.
func (k Kind) sentinel() error {
	switch k {
	case KindValidation, KindInvalidCustomer:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindDuplicateCode:
		return ErrDuplicate
	case KindInsufficientStock:
		return ErrInsufficientStock
	case KindSaleBlockedClosedDay:
		return ErrForbidden
	case KindNotInSale, KindNotInPurchase, KindOverReturn, KindNoPendingSales:
		return ErrConflict
	case KindContention:
		return ErrContention
	}
	return nil
}

// Error es el error etiquetado del dominio. Details lleva datos estructurados
// (por ejemplo disponible y solicitado en INSUFFICIENT_STOCK).
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap expone la causa original (error de pgx, contexto, etc.).
func (e *Error) Unwrap() error { return e.cause }

// Is permite errors.Is(err, domain.ErrInsufficientStock) y similares.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind
	}
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// NewError construye un error etiquetado.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf construye un error etiquetado con mensaje formateado.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap etiqueta una causa existente.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// WithDetail agrega un dato estructurado y devuelve el mismo error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Validation atajo para errores de entrada.
func Validation(format string, args ...any) *Error {
	return Errorf(KindValidation, format, args...)
}

// KindOf devuelve el Kind de err; INTERNAL si no es un error etiquetado.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrDuplicate):
		return KindDuplicateCode
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrContention):
		return KindContention
	}
	return KindInternal
}

// IsRetryable indica si la operación puede reintentarse sin cambios (contención de bloqueos).
func IsRetryable(err error) bool {
	return KindOf(err) == KindContention
}
