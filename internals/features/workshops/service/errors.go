package service

import "github.com/gofiber/fiber/v2"

// Kind clasifica los fallos del motor de inscripción en una variante cerrada,
// para que los callers hagan match exhaustivo en vez de inspeccionar strings.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1 // entrada malformada → 400
	KindNotFound                        // usuario/taller inexistente → 404
	KindInvalidState                    // precondición violada (doble inscripción) → 400
	KindForbidden                       // pago no verificado → 403
	KindConflict                        // cupo agotado (incluye overshoot por concurrencia) → 409
	KindInternal                        // fallo de base de datos → 500
)

type EnrollError struct {
	Kind    Kind
	Message string
}

func (e *EnrollError) Error() string {
	return e.Message
}

func (e *EnrollError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidArgument, KindInvalidState:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errInvalidArgument(msg string) *EnrollError {
	return &EnrollError{Kind: KindInvalidArgument, Message: msg}
}

func errNotFound(msg string) *EnrollError {
	return &EnrollError{Kind: KindNotFound, Message: msg}
}

func errInvalidState(msg string) *EnrollError {
	return &EnrollError{Kind: KindInvalidState, Message: msg}
}

func errForbidden(msg string) *EnrollError {
	return &EnrollError{Kind: KindForbidden, Message: msg}
}

func errConflict(msg string) *EnrollError {
	return &EnrollError{Kind: KindConflict, Message: msg}
}

func errInternal(msg string) *EnrollError {
	return &EnrollError{Kind: KindInternal, Message: msg}
}
