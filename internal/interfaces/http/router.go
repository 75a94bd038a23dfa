package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturador-pe/internal/application/auth"
	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/application/company"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CompanyUC *company.CompanyUseCase
	FacturaUC *billing.FacturaUseCase
	EnvioUC   *billing.EnviarSunatUseCase
	EstadoUC  *billing.EstadoUseCase
	PdfUC     *billing.PdfUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Companies (protegido; cada operación verifica pertenencia al usuario)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	// Facturas (protegido)
	facturas := protected.Group("/facturas")
	facturaHandler := NewFacturaHandler(deps.FacturaUC, deps.EnvioUC, deps.EstadoUC, deps.PdfUC)
	facturas.Post("/", facturaHandler.Create)
	facturas.Get("/", facturaHandler.List)
	// Registrada antes de /:id para que "sweep-vencidas" no se capture como id.
	facturas.Post("/sweep-vencidas", facturaHandler.SweepVencidas)
	facturas.Get("/:id", facturaHandler.GetByID)
	facturas.Put("/:id/estado", facturaHandler.ChangeEstado)
	facturas.Delete("/:id", facturaHandler.Anular)
	facturas.Post("/:id/enviar", facturaHandler.Enviar)
	facturas.Get("/:id/pdf", facturaHandler.Pdf)
	facturas.Get("/:id/xml", facturaHandler.Xml)
}
