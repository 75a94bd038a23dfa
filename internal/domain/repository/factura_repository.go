package repository

import (
	"time"

	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
)

// FacturaRepository define el puerto de persistencia para Factura y detalles.
type FacturaRepository interface {
	Create(factura *entity.Factura) error
	CreateDetalle(detalle *entity.FacturaDetalle) error
	GetByID(id string) (*entity.Factura, error)
	GetDetallesByFacturaID(facturaID string) ([]*entity.FacturaDetalle, error)
	// Update actualiza estado, sunat_response y rutas de artefactos
	// (pdf_path, xml_path, cdr_path).
	Update(factura *entity.Factura) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Factura, error)
	// ListVencibles devuelve las Pendientes con fecha de vencimiento anterior
	// a asOf, para el barrido de vencidas.
	ListVencibles(companyID string, asOf time.Time) ([]*entity.Factura, error)
}
