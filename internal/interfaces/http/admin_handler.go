package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/candelacafe/candela-api/internal/application/auth"
	"github.com/candelacafe/candela-api/internal/application/dashboard"
)

// AdminHandler operaciones con visibilidad cruzada entre tenants.
// Todas sus rutas van detrás de RequireRole(admin).
type AdminHandler struct {
	authUC      *auth.AuthUseCase
	dashboardUC *dashboard.UseCase
}

// NewAdminHandler construye el handler de administración.
func NewAdminHandler(authUC *auth.AuthUseCase, dashboardUC *dashboard.UseCase) *AdminHandler {
	return &AdminHandler{authUC: authUC, dashboardUC: dashboardUC}
}

// ListUsers godoc
// @Summary      Listar todas las cuentas
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.UsuarioResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	lista, err := h.authUC.ListarUsuarios(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(lista)
}

// UserData godoc
// @Summary      Leer el documento de otro tenant
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "id del usuario"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/data [get]
func (h *AdminHandler) UserData(c *fiber.Ctx) error {
	doc, err := h.dashboardUC.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(doc)
}
