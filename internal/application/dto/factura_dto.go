package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
)

// FacturaDetalleRequest línea de la factura tal como la envía el cliente.
// El precio unitario incluye IGV; los valores netos se calculan en el motor.
type FacturaDetalleRequest struct {
	Descripcion    string          `json:"descripcion" validate:"required,min=1,max=500"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	TipAfeIgv      string          `json:"tip_afe_igv" validate:"omitempty"` // Catálogo 07; por defecto 10 (gravada)
	BolsaPlastica  bool            `json:"bolsa_plastica"`
}

// CreateFacturaRequest entrada para crear una factura.
type CreateFacturaRequest struct {
	CompanyRuc       string                  `json:"company_ruc" validate:"required,len=11"`
	Serie            string                  `json:"serie" validate:"required"`
	Correlativo      string                  `json:"correlativo" validate:"required"`
	FechaEmision     time.Time               `json:"fecha_emision"`
	FechaVencimiento *time.Time              `json:"fecha_vencimiento"`
	Moneda           string                  `json:"moneda" validate:"omitempty,oneof=PEN USD"`
	TipoDocCliente   string                  `json:"tipo_doc_cliente" validate:"required"`
	NumDocCliente    string                  `json:"num_doc_cliente" validate:"required"`
	NombreCliente    string                  `json:"nombre_cliente" validate:"required"`
	DireccionCliente string                  `json:"direccion_cliente"`
	Detalles         []FacturaDetalleRequest `json:"detalles" validate:"required,min=1,dive"`
}

// ChangeEstadoRequest entrada para el cambio manual de estado.
type ChangeEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=Pagada Vencida Anulada"`
}

// FacturaDetalleResponse línea con los valores calculados.
type FacturaDetalleResponse struct {
	ID             string          `json:"id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	TipAfeIgv      string          `json:"tip_afe_igv"`
	BolsaPlastica  bool            `json:"bolsa_plastica"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Igv            decimal.Decimal `json:"igv"`
	Icbper         decimal.Decimal `json:"icbper"`
}

// FacturaResponse salida de una factura con sus líneas.
type FacturaResponse struct {
	ID               string                   `json:"id"`
	CompanyID        string                   `json:"company_id"`
	Serie            string                   `json:"serie"`
	Correlativo      string                   `json:"correlativo"`
	FechaEmision     string                   `json:"fecha_emision"`
	FechaVencimiento string                   `json:"fecha_vencimiento,omitempty"`
	Moneda           string                   `json:"moneda"`
	TipoDocCliente   string                   `json:"tipo_doc_cliente"`
	NumDocCliente    string                   `json:"num_doc_cliente"`
	NombreCliente    string                   `json:"nombre_cliente"`
	DireccionCliente string                   `json:"direccion_cliente,omitempty"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	Igv              decimal.Decimal          `json:"igv"`
	Total            decimal.Decimal          `json:"total"`
	Estado           string                   `json:"estado"`
	SunatResponse    *entity.SunatResponse    `json:"sunat_response,omitempty"`
	PdfPath          string                   `json:"pdf_path,omitempty"`
	XmlPath          string                   `json:"xml_path,omitempty"`
	CdrPath          string                   `json:"cdr_path,omitempty"`
	Detalles         []FacturaDetalleResponse `json:"detalles,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// FacturaListResponse lista paginada de facturas.
type FacturaListResponse struct {
	Items []FacturaResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// EnvioSunatResponse resultado del envío a SUNAT. Refleja el contrato del
// servicio: XML firmado, hash de la firma, veredicto y eco de la factura.
type EnvioSunatResponse struct {
	Xml           string                `json:"xml,omitempty"`
	Hash          string                `json:"hash,omitempty"`
	SunatResponse *entity.SunatResponse `json:"sunatResponse"`
	Factura       *FacturaResponse      `json:"data,omitempty"`
}
