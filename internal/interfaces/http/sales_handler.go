package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/candelacafe/candela-api/internal/application/dashboard"
	"github.com/candelacafe/candela-api/internal/application/dto"
)

// SalesHandler maneja la venta local compuesta y las mutaciones puntuales de ventas.
type SalesHandler struct {
	uc *dashboard.UseCase
}

// NewSalesHandler construye el handler de ventas.
func NewSalesHandler(uc *dashboard.UseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Local godoc
// @Summary      Registrar venta local y descontar inventario en una sola unidad
// @Description  Agrega la venta a ventasLocales y aplica las deducciones de stock con piso en cero; una sola escritura persistida.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.VentaLocalRequest  true  "sale + deductInventory"
// @Success      200   {object}  dto.VentaLocalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/local [post]
func (h *SalesHandler) Local(c *fiber.Ctx) error {
	var in dto.VentaLocalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido", Code: "INVALID_BODY"})
	}
	out, err := h.uc.VentaLocal(c.Context(), GetUserID(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// CicloEstado godoc
// @Summary      Avanzar el estado de una venta (iniciada -> proceso -> entregada -> iniciada)
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "id de la venta"
// @Success      200  {object}  dto.MutacionVentaResponse
// @Router       /api/sales/{id}/estado [post]
func (h *SalesHandler) CicloEstado(c *fiber.Ctx) error {
	id, err := ventaID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id inválido", Code: "VALIDATION"})
	}
	out, err := h.uc.CicloEstado(c.Context(), GetUserID(c), id)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Toggle godoc
// @Summary      Alternar un flag de venta (facturado o pagado)
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   int     true  "id de la venta"
// @Param        campo  query  string  true  "facturado | pagado"
// @Success      200  {object}  dto.MutacionVentaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/toggle [post]
func (h *SalesHandler) Toggle(c *fiber.Ctx) error {
	id, err := ventaID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id inválido", Code: "VALIDATION"})
	}
	out, err := h.uc.ToggleCampo(c.Context(), GetUserID(c), id, c.Query("campo"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

func ventaID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
