package helper

import "github.com/gofiber/fiber/v2"

// FromFiberError convierte el error devuelto por una Transaction (normalmente
// *fiber.Error) en una respuesta JSON consistente vía helper.Error.
// Si no es *fiber.Error, cae en 500 con el mensaje original.
func FromFiberError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return Error(c, fe.Code, fe.Message)
	}
	return Error(c, fiber.StatusInternalServerError, err.Error())
}
