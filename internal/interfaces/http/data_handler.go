package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/candelacafe/candela-api/internal/application/dashboard"
	"github.com/candelacafe/candela-api/internal/application/dto"
	"github.com/candelacafe/candela-api/internal/domain/entity"
)

// DataHandler maneja el documento del tenant: lectura, sobrescritura, append y resumen.
type DataHandler struct {
	uc *dashboard.UseCase
}

// NewDataHandler construye el handler de datos.
func NewDataHandler(uc *dashboard.UseCase) *DataHandler {
	return &DataHandler{uc: uc}
}

// Get godoc
// @Summary      Documento completo del tenant
// @Tags         data
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/data [get]
func (h *DataHandler) Get(c *fiber.Ctx) error {
	doc, err := h.uc.Obtener(c.Context(), GetUserID(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(doc)
}

// Post godoc
// @Summary      Sobrescribir el documento completo
// @Description  Destructivo: todo campo ausente del cuerpo desaparece del documento persistido.
// @Tags         data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/data [post]
func (h *DataHandler) Post(c *fiber.Ctx) error {
	var doc entity.Documento
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido", Code: "INVALID_BODY"})
	}
	if doc == nil {
		doc = entity.Documento{}
	}
	if err := h.uc.Sobrescribir(c.Context(), GetUserID(c), doc); err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Push godoc
// @Summary      Agregar un elemento al frente de un array del documento
// @Description  Devuelve el array completo actualizado para reemplazar la copia local del cliente.
// @Tags         data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        array  query  string  true  "nombre del array (ventas, gastos, inventario, ...)"
// @Success      200  {array}   any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/push [post]
func (h *DataHandler) Push(c *fiber.Ctx) error {
	nombre := c.Query("array")
	if nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query param 'array' requerido", Code: "VALIDATION"})
	}
	var elemento map[string]any
	if err := c.BodyParser(&elemento); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido", Code: "INVALID_BODY"})
	}
	arr, err := h.uc.Agregar(c.Context(), GetUserID(c), nombre, elemento)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(arr)
}

// Resumen godoc
// @Summary      Totales calculados del dashboard
// @Tags         data
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ResumenResponse
// @Router       /api/summary [get]
func (h *DataHandler) Resumen(c *fiber.Ctx) error {
	out, err := h.uc.Resumen(c.Context(), GetUserID(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}
