package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/candelacafe/candela-api/internal/application/dto"
	"github.com/candelacafe/candela-api/internal/domain"
)

// responderError mapea errores de dominio a la taxonomía HTTP del API.
// ErrAlmacenamiento nunca se degrada a un documento vacío: es un 500 explícito.
func responderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "entrada inválida", Code: "VALIDATION"})
	case errors.Is(err, domain.ErrUsuarioYaExiste):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "el nombre de usuario ya está registrado", Code: "USERNAME_EXISTS"})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUsuarioNoExiste):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "credenciales inválidas", Code: "UNAUTHORIZED"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "acceso denegado", Code: "FORBIDDEN"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "recurso no encontrado", Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrAlmacenamiento):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "fallo de almacenamiento", Code: "STORAGE"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error(), Code: "INTERNAL"})
	}
}
