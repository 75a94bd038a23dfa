package billing

import (
	"context"

	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
)

// FacturaTxRunner ejecuta una función dentro de una transacción que cubre
// cabecera y detalles de la factura. O se insertan todas las filas o ninguna;
// una cabecera sin líneas nunca es observable.
type FacturaTxRunner interface {
	RunFactura(ctx context.Context, fn func(facturaRepo repository.FacturaRepository) error) error
}

// Transmitter construye, firma y envía el comprobante a SUNAT con las
// credenciales de la empresa. Un error de evaluación (rechazo) NO es un error
// de esta interfaz: viene como dato dentro de RawResult. El error de retorno
// se reserva para fallas de transporte (ver sunat.TransmitError).
type Transmitter interface {
	Submit(ctx context.Context, doc *domsunat.Documento, company *entity.Company) (*domsunat.RawResult, error)
	// SignedXML firma el comprobante sin enviarlo, para la descarga del XML.
	SignedXML(doc *domsunat.Documento, company *entity.Company) ([]byte, string, error)
}

// PDFGenerator renderiza la representación impresa de la factura.
type PDFGenerator interface {
	Generate(doc *domsunat.Documento, company *entity.Company, hash string) ([]byte, error)
}

// ArtifactStore guarda y recupera los artefactos generados (XML, CDR, PDF).
// Devuelve la ruta persistible en la factura.
type ArtifactStore interface {
	Put(name string, data []byte) (string, error)
	Get(path string) ([]byte, error)
}
