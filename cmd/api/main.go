package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/candelacafe/candela-api/internal/application/auth"
	"github.com/candelacafe/candela-api/internal/application/dashboard"
	"github.com/candelacafe/candela-api/internal/domain/repository"
	"github.com/candelacafe/candela-api/internal/infrastructure/file"
	"github.com/candelacafe/candela-api/internal/infrastructure/postgres"
	httpRouter "github.com/candelacafe/candela-api/internal/interfaces/http"
	"github.com/candelacafe/candela-api/pkg/config"
	"github.com/candelacafe/candela-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Storage.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Los dos backends implementan el mismo contrato; el resto de la app no
	// distingue cuál está activo.
	var usuarios repository.RepositorioUsuarios
	var documentos repository.RepositorioDocumentos
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.MigrarEsquema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema")
		}
		usuarios = postgres.NewUsuarioRepository(pool)
		documentos = postgres.NewDocumentoRepository(pool)
	default:
		store := file.NuevoStore(cfg.Storage.RutaDatos, cfg.Storage.RutaUsuarios)
		usuarios = store
		documentos = store
	}

	authUC := auth.NewAuthUseCase(usuarios, documentos, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	dashboardUC := dashboard.NewUseCase(documentos, log)

	if cfg.Auth.AdminPassword != "" {
		if err := authUC.SembrarAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("sembrar administrador")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Candela API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		DashboardUC:     dashboardUC,
		JWTSecret:       cfg.JWT.Secret,
		RegistroAbierto: cfg.Auth.RegistroAbierto,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
