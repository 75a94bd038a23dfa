package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/application/dto"
	"github.com/tu-usuario/facturador-pe/internal/domain"
)

// FacturaHandler maneja el ciclo de vida de las facturas (protegido).
type FacturaHandler struct {
	facturaUC *billing.FacturaUseCase
	envioUC   *billing.EnviarSunatUseCase
	estadoUC  *billing.EstadoUseCase
	pdfUC     *billing.PdfUseCase
}

// NewFacturaHandler construye el handler.
func NewFacturaHandler(
	facturaUC *billing.FacturaUseCase,
	envioUC *billing.EnviarSunatUseCase,
	estadoUC *billing.EstadoUseCase,
	pdfUC *billing.PdfUseCase,
) *FacturaHandler {
	return &FacturaHandler{
		facturaUC: facturaUC,
		envioUC:   envioUC,
		estadoUC:  estadoUC,
		pdfUC:     pdfUC,
	}
}

// Create emite una factura: calcula impuestos, arma el comprobante y lo
// persiste en estado Pendiente.
// POST /api/facturas
func (h *FacturaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFacturaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.facturaUC.CreateFactura(c.Context(), GetUserID(c), in)
	if err != nil {
		return facturaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List lista las facturas de una empresa del usuario.
// GET /api/facturas?company_ruc=...&limit=...&offset=...
func (h *FacturaHandler) List(c *fiber.Ctx) error {
	companyRuc := c.Query("company_ruc")
	if companyRuc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "company_ruc requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	resp, err := h.facturaUC.ListFacturas(c.Context(), GetUserID(c), companyRuc, page)
	if err != nil {
		return facturaError(c, err)
	}
	return c.JSON(resp)
}

// GetByID obtiene la factura con sus detalles.
// GET /api/facturas/:id
func (h *FacturaHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.facturaUC.GetFactura(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return facturaError(c, err)
	}
	return c.JSON(resp)
}

// ChangeEstado transiciona el estado de la factura (Pagada, Vencida, Anulada).
// PUT /api/facturas/:id/estado
func (h *FacturaHandler) ChangeEstado(c *fiber.Ctx) error {
	var in dto.ChangeEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.estadoUC.ChangeEstado(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return facturaError(c, err)
	}
	return c.JSON(resp)
}

// Anular anulación lógica de la factura. El registro se conserva.
// DELETE /api/facturas/:id
func (h *FacturaHandler) Anular(c *fiber.Ctx) error {
	resp, err := h.estadoUC.Anular(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return facturaError(c, err)
	}
	return c.JSON(resp)
}

// Enviar firma y envía la factura a SUNAT. El rechazo de SUNAT responde 200
// con success=false: es un veredicto, no un error HTTP.
// POST /api/facturas/:id/enviar
func (h *FacturaHandler) Enviar(c *fiber.Ctx) error {
	resp, err := h.envioUC.Enviar(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return facturaError(c, err)
	}
	return c.JSON(resp)
}

// Pdf descarga la representación impresa. Content-Type application/pdf solo
// se establece cuando la generación fue exitosa.
// GET /api/facturas/:id/pdf
func (h *FacturaHandler) Pdf(c *fiber.Ctx) error {
	pdf, name, err := h.pdfUC.Generate(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return facturaError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(pdf)
}

// Xml descarga el XML firmado del comprobante sin enviarlo.
// GET /api/facturas/:id/xml
func (h *FacturaHandler) Xml(c *fiber.Ctx) error {
	xmlBytes, name, err := h.envioUC.SignedXML(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return facturaError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(xmlBytes)
}

// SweepVencidas marca como Vencida toda factura Pendiente de la empresa con
// plazo de pago cumplido. Operación explícita, no un job implícito.
// POST /api/facturas/sweep-vencidas?company_ruc=...
func (h *FacturaHandler) SweepVencidas(c *fiber.Ctx) error {
	companyRuc := c.Query("company_ruc")
	if companyRuc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "company_ruc requerido"})
	}
	n, err := h.estadoUC.SweepVencidas(c.Context(), GetUserID(c), companyRuc, time.Now())
	if err != nil {
		return facturaError(c, err)
	}
	return c.JSON(fiber.Map{"vencidas": n})
}

// facturaError mapea los errores de dominio a códigos HTTP. El conflicto de
// estado (409) cubre pagar lo pagado, duplicar serie-correlativo y las
// transiciones no permitidas.
func facturaError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrRender):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "RENDER_FAILED", Message: "no se pudo generar el PDF"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
