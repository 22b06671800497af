package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/candelacafe/candela-api/internal/application/dashboard"
	"github.com/candelacafe/candela-api/internal/application/export"
)

// ExportHandler descarga de reportes del documento del tenant.
type ExportHandler struct {
	uc *dashboard.UseCase
}

// NewExportHandler construye el handler de exportación.
func NewExportHandler(uc *dashboard.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Ventas godoc
// @Summary      Exportar ventas e inventario como XLSX
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/export/sales [get]
func (h *ExportHandler) Ventas(c *fiber.Ctx) error {
	doc, err := h.uc.Obtener(c.Context(), GetUserID(c))
	if err != nil {
		return responderError(c, err)
	}
	buf, err := export.ReporteVentas(doc)
	if err != nil {
		return responderError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ventas.xlsx"`)
	return c.Send(buf.Bytes())
}
