package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturador-pe/internal/application/auth"
	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/application/company"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	infrapdf "github.com/tu-usuario/facturador-pe/internal/infrastructure/pdf"
	"github.com/tu-usuario/facturador-pe/internal/infrastructure/postgres"
	"github.com/tu-usuario/facturador-pe/internal/infrastructure/storage"
	infrasunat "github.com/tu-usuario/facturador-pe/internal/infrastructure/sunat"
	httpRouter "github.com/tu-usuario/facturador-pe/internal/interfaces/http"
	"github.com/tu-usuario/facturador-pe/pkg/config"
	"github.com/tu-usuario/facturador-pe/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sunat_env", cfg.SUNAT.Environment).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	facturaRepo := postgres.NewFacturaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	store, err := storage.NewLocalStore(cfg.Store.BasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.BasePath).Msg("almacén de artefactos")
	}

	// Parámetros tributarios desde configuración; la tasa de IGV y el factor
	// ICBPER cambian por norma, no van quemados en código.
	taxCfg := domsunat.Config{
		TasaIGV:      decimal.RequireFromString(cfg.SUNAT.IGVRate),
		FactorICBPER: decimal.RequireFromString(cfg.SUNAT.FactorICBPER),
	}

	// Transmisor SUNAT: cliente SOAP decorado con reintentos ante fallas de
	// transporte. Los rechazos evaluados por SUNAT nunca se reintentan.
	sunatClient := infrasunat.NewClient(time.Duration(cfg.SUNAT.TimeoutSec) * time.Second)
	transmitter := billing.NewRetryingTransmitter(sunatClient, billing.RetryConfig{
		Attempts: cfg.SUNAT.RetryAttempts,
		BaseWait: time.Duration(cfg.SUNAT.RetryBaseMs) * time.Millisecond,
	}, log.Component("sunat"))

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := company.NewCompanyUseCase(companyRepo)
	facturaUC := billing.NewFacturaUseCase(txRunner, facturaRepo, companyRepo, taxCfg)
	envioUC := billing.NewEnviarSunatUseCase(facturaUC, facturaRepo, transmitter, store, log.Component("envio"))
	estadoUC := billing.NewEstadoUseCase(facturaUC, facturaRepo, companyRepo, log.Component("estado"))
	pdfUC := billing.NewPdfUseCase(facturaUC, facturaRepo, infrapdf.NewMarotoPDFGenerator(), store, log.Component("pdf"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturador PE API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CompanyUC: companyUC,
		FacturaUC: facturaUC,
		EnvioUC:   envioUC,
		EstadoUC:  estadoUC,
		PdfUC:     pdfUC,
		JWTSecret: cfg.JWT.Secret,
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
