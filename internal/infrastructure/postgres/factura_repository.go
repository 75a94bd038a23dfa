package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
)

var _ repository.FacturaRepository = (*FacturaRepo)(nil)

// FacturaRepo implementación de FacturaRepository (usable con pool o tx).
type FacturaRepo struct {
	q Querier
}

// NewFacturaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFacturaRepository(q Querier) *FacturaRepo {
	return &FacturaRepo{q: q}
}

const facturaColumns = `
	id, company_id, serie, correlativo, fecha_emision, fecha_vencimiento, moneda,
	tipo_doc_cliente, num_doc_cliente, nombre_cliente, direccion_cliente,
	subtotal, igv, total, estado, sunat_response, pdf_path, xml_path, cdr_path,
	created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *FacturaRepo) Create(factura *entity.Factura) error {
	if factura.ID == "" {
		factura.ID = uuid.New().String()
	}
	sunatJSON, err := marshalSunatResponse(factura.SunatResponse)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO facturas (id, company_id, serie, correlativo, fecha_emision, fecha_vencimiento, moneda,
			tipo_doc_cliente, num_doc_cliente, nombre_cliente, direccion_cliente,
			subtotal, igv, total, estado, sunat_response, pdf_path, xml_path, cdr_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = r.q.Exec(context.Background(), query,
		factura.ID, factura.CompanyID, factura.Serie, factura.Correlativo,
		factura.FechaEmision, factura.FechaVencimiento, factura.Moneda,
		factura.TipoDocCliente, factura.NumDocCliente, factura.NombreCliente, nullIfEmpty(factura.DireccionCliente),
		factura.Subtotal, factura.Igv, factura.Total, factura.Estado, sunatJSON,
		nullIfEmpty(factura.PdfPath), nullIfEmpty(factura.XmlPath), nullIfEmpty(factura.CdrPath),
		factura.CreatedAt, factura.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// unique (company_id, serie, correlativo)
			return fmt.Errorf("%w: serie y correlativo ya emitidos", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert factura: %w", err)
	}
	return nil
}

// CreateDetalle persiste una línea de detalle.
func (r *FacturaRepo) CreateDetalle(detalle *entity.FacturaDetalle) error {
	if detalle.ID == "" {
		detalle.ID = uuid.New().String()
	}
	query := `
		INSERT INTO factura_detalles (id, factura_id, line_number, descripcion, cantidad, precio_unitario,
			tip_afe_igv, bolsa_plastica, subtotal, igv, icbper)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		detalle.ID, detalle.FacturaID, detalle.LineNumber, detalle.Descripcion, detalle.Cantidad, detalle.PrecioUnitario,
		detalle.TipAfeIgv, detalle.BolsaPlastica, detalle.Subtotal, detalle.Igv, detalle.Icbper,
	)
	if err != nil {
		return fmt.Errorf("insert factura detalle: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *FacturaRepo) GetByID(id string) (*entity.Factura, error) {
	query := `SELECT ` + facturaColumns + ` FROM facturas WHERE id = $1`
	f, err := r.scanFactura(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factura: %w", err)
	}
	return f, nil
}

// Update actualiza estado, resultado SUNAT y rutas de artefactos.
func (r *FacturaRepo) Update(factura *entity.Factura) error {
	sunatJSON, err := marshalSunatResponse(factura.SunatResponse)
	if err != nil {
		return err
	}
	query := `
		UPDATE facturas
		SET estado         = $2,
		    sunat_response = COALESCE($3, sunat_response),
		    pdf_path       = COALESCE($4, pdf_path),
		    xml_path       = COALESCE($5, xml_path),
		    cdr_path       = COALESCE($6, cdr_path),
		    fecha_vencimiento = $7,
		    updated_at     = $8
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		factura.ID,
		factura.Estado,
		sunatJSON,
		nullIfEmpty(factura.PdfPath),
		nullIfEmpty(factura.XmlPath),
		nullIfEmpty(factura.CdrPath),
		factura.FechaVencimiento,
		factura.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update factura: %w", err)
	}
	return nil
}

// GetDetallesByFacturaID obtiene las líneas de una factura en su orden de
// emisión; el XML que se reenvía y el PDF respetan este orden.
func (r *FacturaRepo) GetDetallesByFacturaID(facturaID string) ([]*entity.FacturaDetalle, error) {
	query := `
		SELECT id, factura_id, line_number, descripcion, cantidad, precio_unitario,
		       tip_afe_igv, bolsa_plastica, subtotal, igv, icbper
		FROM factura_detalles WHERE factura_id = $1 ORDER BY line_number`
	rows, err := r.q.Query(context.Background(), query, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list factura detalles: %w", err)
	}
	defer rows.Close()
	var list []*entity.FacturaDetalle
	for rows.Next() {
		var d entity.FacturaDetalle
		if err := rows.Scan(&d.ID, &d.FacturaID, &d.LineNumber, &d.Descripcion, &d.Cantidad, &d.PrecioUnitario,
			&d.TipAfeIgv, &d.BolsaPlastica, &d.Subtotal, &d.Igv, &d.Icbper); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListByCompany lista las facturas de una empresa, más recientes primero.
func (r *FacturaRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Factura, error) {
	query := `SELECT ` + facturaColumns + `
		FROM facturas WHERE company_id = $1
		ORDER BY fecha_emision DESC, serie, correlativo
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list facturas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Factura
	for rows.Next() {
		f, err := r.scanFactura(rows)
		if err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// ListVencibles devuelve las Pendientes con vencimiento anterior a asOf.
func (r *FacturaRepo) ListVencibles(companyID string, asOf time.Time) ([]*entity.Factura, error) {
	query := `SELECT ` + facturaColumns + `
		FROM facturas
		WHERE company_id = $1 AND estado = $2 AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento < $3
		ORDER BY fecha_vencimiento`
	rows, err := r.q.Query(context.Background(), query, companyID, entity.EstadoPendiente, asOf)
	if err != nil {
		return nil, fmt.Errorf("list vencibles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Factura
	for rows.Next() {
		f, err := r.scanFactura(rows)
		if err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// rowScanner cubre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *FacturaRepo) scanFactura(row rowScanner) (*entity.Factura, error) {
	var f entity.Factura
	var direccion, pdfPath, xmlPath, cdrPath *string
	var sunatJSON []byte
	err := row.Scan(
		&f.ID, &f.CompanyID, &f.Serie, &f.Correlativo, &f.FechaEmision, &f.FechaVencimiento, &f.Moneda,
		&f.TipoDocCliente, &f.NumDocCliente, &f.NombreCliente, &direccion,
		&f.Subtotal, &f.Igv, &f.Total, &f.Estado, &sunatJSON, &pdfPath, &xmlPath, &cdrPath,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.DireccionCliente = derefStr(direccion)
	f.PdfPath = derefStr(pdfPath)
	f.XmlPath = derefStr(xmlPath)
	f.CdrPath = derefStr(cdrPath)
	if len(sunatJSON) > 0 {
		var sr entity.SunatResponse
		if err := json.Unmarshal(sunatJSON, &sr); err != nil {
			return nil, fmt.Errorf("decode sunat_response: %w", err)
		}
		f.SunatResponse = &sr
	}
	return &f, nil
}

// marshalSunatResponse serializa el payload a JSONB; nil queda como NULL.
func marshalSunatResponse(sr *entity.SunatResponse) ([]byte, error) {
	if sr == nil {
		return nil, nil
	}
	data, err := json.Marshal(sr)
	if err != nil {
		return nil, fmt.Errorf("encode sunat_response: %w", err)
	}
	return data, nil
}
