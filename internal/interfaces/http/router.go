package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/candelacafe/candela-api/internal/application/auth"
	"github.com/candelacafe/candela-api/internal/application/dashboard"
	"github.com/candelacafe/candela-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	DashboardUC *dashboard.UseCase
	JWTSecret   string
	// RegistroAbierto controla si POST /api/register es público o exige un
	// token de administrador (variante de producción).
	RegistroAbierto bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	dataHandler := NewDataHandler(deps.DashboardUC)
	salesHandler := NewSalesHandler(deps.DashboardUC)
	adminHandler := NewAdminHandler(deps.AuthUC, deps.DashboardUC)
	exportHandler := NewExportHandler(deps.DashboardUC)

	// Auth (login siempre público; register según configuración)
	api.Post("/login", authHandler.Login)
	if deps.RegistroAbierto {
		api.Post("/register", authHandler.Register)
	} else {
		api.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RolAdmin), authHandler.Register)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/me", authHandler.Me)
	protected.Post("/upgrade", authHandler.Upgrade)

	protected.Get("/data", dataHandler.Get)
	protected.Post("/data", dataHandler.Post)
	protected.Post("/push", dataHandler.Push)
	protected.Get("/summary", dataHandler.Resumen)

	sales := protected.Group("/sales")
	sales.Post("/local", salesHandler.Local)
	sales.Post("/:id/estado", salesHandler.CicloEstado)
	sales.Post("/:id/toggle", salesHandler.Toggle)

	protected.Get("/export/sales", exportHandler.Ventas)

	// Administración (visibilidad entre tenants)
	admin := protected.Group("/admin", RequireRole(entity.RolAdmin))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id/data", adminHandler.UserData)
}
