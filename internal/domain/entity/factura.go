package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturador-pe/internal/domain"
)

// Estados del ciclo de vida de una factura.
//
//	Pendiente ──► Pagada ──┐
//	    │  └────► Vencida ─┤ (Vencida puede pagarse o anularse)
//	    └──────────────────┴──► Anulada (terminal)
//
// El estado es la única mutación permitida después de crear el registro;
// las líneas son hijas inmutables.
const (
	EstadoPendiente = "Pendiente" // creada, aún sin aceptación de SUNAT
	EstadoPagada    = "Pagada"    // aceptada por SUNAT o marcada pagada por el operador
	EstadoVencida   = "Vencida"   // venció el plazo de pago (barrido explícito)
	EstadoAnulada   = "Anulada"   // anulación lógica, terminal
)

// SunatError error devuelto por SUNAT cuando evalúa y rechaza el comprobante.
type SunatError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CdrData metadatos de la constancia de recepción (CDR) de SUNAT.
type CdrData struct {
	Code        int      `json:"code"`
	Description string   `json:"description"`
	Notes       []string `json:"notes"`
}

// SunatResponse es el payload persistido en facturas.sunat_response (JSONB).
// Refleja el contrato del servicio: éxito con CDR, o rechazo con error.
// Un fallo de transporte también se registra aquí como intento fallido.
type SunatResponse struct {
	Success     bool        `json:"success"`
	Hash        string      `json:"hash,omitempty"` // digest de la firma del XML enviado
	CdrResponse *CdrData    `json:"cdrResponse,omitempty"`
	Error       *SunatError `json:"error,omitempty"`
}

// Factura representa la cabecera de una factura electrónica persistida.
// serie+correlativo es único por empresa (constraint en DB; la unicidad es
// responsabilidad del caller, no del motor de cálculo).
type Factura struct {
	ID               string
	CompanyID        string
	Serie            string // ej: "F001"
	Correlativo      string // ej: "00000123"
	FechaEmision     time.Time
	FechaVencimiento *time.Time // nil = sin plazo; usado por el barrido de vencidas
	Moneda           string     // Catálogo 02, normalmente PEN
	// Snapshot del cliente (no hay entidad cliente separada; ver DESIGN.md).
	TipoDocCliente   string // Catálogo 06 (1=DNI, 6=RUC, ...)
	NumDocCliente    string
	NombreCliente    string
	DireccionCliente string // puede ser vacío
	// Totales derivados del cálculo de impuestos.
	Subtotal decimal.Decimal // valor de venta neto
	Igv      decimal.Decimal
	Total    decimal.Decimal // mtoImpVenta (con redondeo a 0.10)
	Estado   string
	// Resultado del envío a SUNAT y artefactos generados (nil/vacíos hasta que existan).
	SunatResponse *SunatResponse
	PdfPath       string
	XmlPath       string
	CdrPath       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MarcarPagada transiciona a Pagada. Permitida desde Pendiente y Vencida;
// pagar una factura ya pagada es un conflicto y una anulada es terminal.
func (f *Factura) MarcarPagada() error {
	switch f.Estado {
	case EstadoPendiente, EstadoVencida:
		f.Estado = EstadoPagada
		return nil
	case EstadoPagada:
		return domain.ErrConflict
	default:
		return domain.ErrInvalidTransition
	}
}

// MarcarVencida transiciona a Vencida. Solo desde Pendiente; la política de
// vencimiento (comparar FechaVencimiento con la fecha actual) vive en el
// caso de uso de barrido, no aquí.
func (f *Factura) MarcarVencida() error {
	if f.Estado != EstadoPendiente {
		return domain.ErrInvalidTransition
	}
	f.Estado = EstadoVencida
	return nil
}

// Anular transiciona a Anulada desde cualquier estado no terminal. La
// anulación es un cambio lógico: el registro y sus líneas siguen consultables.
// Anular una factura ya anulada se rechaza (la anulación es definitiva).
func (f *Factura) Anular() error {
	if f.Estado == EstadoAnulada {
		return domain.ErrInvalidTransition
	}
	f.Estado = EstadoAnulada
	return nil
}

// PuedeEnviarse indica si la factura admite un (re)envío a SUNAT.
// Una factura Pagada ya fue aceptada (reenviarla duplicaría el cobro) y una
// Anulada es terminal.
func (f *Factura) PuedeEnviarse() error {
	switch f.Estado {
	case EstadoPagada:
		return domain.ErrConflict
	case EstadoAnulada:
		return domain.ErrInvalidTransition
	default:
		return nil
	}
}

// Name devuelve el identificador de archivo SUNAT: {RUC}-01-{serie}-{correlativo}.
func (f *Factura) Name(ruc string) string {
	return ruc + "-01-" + f.Serie + "-" + f.Correlativo
}
