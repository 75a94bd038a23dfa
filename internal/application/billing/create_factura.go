package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturador-pe/internal/application/dto"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

// FacturaUseCase crea y consulta facturas. La creación ensambla el documento
// canónico (validación + cálculo de impuestos + leyenda) y persiste cabecera
// y detalles en una sola transacción, en estado Pendiente.
type FacturaUseCase struct {
	txRunner    FacturaTxRunner
	facturaRepo repository.FacturaRepository
	companyRepo repository.CompanyRepository
	taxCfg      domsunat.Config
}

// NewFacturaUseCase construye el caso de uso.
func NewFacturaUseCase(
	txRunner FacturaTxRunner,
	facturaRepo repository.FacturaRepository,
	companyRepo repository.CompanyRepository,
	taxCfg domsunat.Config,
) *FacturaUseCase {
	return &FacturaUseCase{
		txRunner:    txRunner,
		facturaRepo: facturaRepo,
		companyRepo: companyRepo,
		taxCfg:      taxCfg,
	}
}

// CreateFactura valida la entrada, ensambla el documento y persiste cabecera
// más detalles atómicamente. La empresa emisora se busca por RUC verificando
// que pertenezca al usuario autenticado.
func (uc *FacturaUseCase) CreateFactura(ctx context.Context, userID string, in dto.CreateFacturaRequest) (*dto.FacturaResponse, error) {
	company, err := uc.companyRepo.GetByRucAndUser(in.CompanyRuc, userID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrForbidden
	}

	fechaEmision := in.FechaEmision
	if fechaEmision.IsZero() {
		fechaEmision = time.Now()
	}

	lineas := make([]domsunat.LineaInput, 0, len(in.Detalles))
	for _, d := range in.Detalles {
		afe := d.TipAfeIgv
		if afe == "" {
			afe = pkgsunat.AfectacionGravada
		}
		lineas = append(lineas, domsunat.LineaInput{
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			TipAfeIgv:      afe,
			BolsaPlastica:  d.BolsaPlastica,
		})
	}

	doc, err := domsunat.Ensamblar(
		empresaFromCompany(company),
		domsunat.Cliente{
			TipoDoc:   in.TipoDocCliente,
			NumDoc:    in.NumDocCliente,
			RznSocial: in.NombreCliente,
			Direccion: in.DireccionCliente,
		},
		lineas,
		domsunat.Cabecera{
			Serie:        in.Serie,
			Correlativo:  in.Correlativo,
			FechaEmision: fechaEmision,
			TipoMoneda:   in.Moneda,
		},
		uc.taxCfg,
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	factura := &entity.Factura{
		ID:               uuid.New().String(),
		CompanyID:        company.ID,
		Serie:            doc.Serie,
		Correlativo:      doc.Correlativo,
		FechaEmision:     doc.FechaEmision,
		FechaVencimiento: in.FechaVencimiento,
		Moneda:           doc.TipoMoneda,
		TipoDocCliente:   doc.Client.TipoDoc,
		NumDocCliente:    doc.Client.NumDoc,
		NombreCliente:    doc.Client.RznSocial,
		DireccionCliente: doc.Client.Direccion,
		Subtotal:         doc.Totales.ValorVenta,
		Igv:              doc.Totales.MtoIGV,
		Total:            doc.Totales.MtoImpVenta,
		Estado:           entity.EstadoPendiente,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	detalles := make([]*entity.FacturaDetalle, 0, len(doc.Details))
	for i, l := range doc.Details {
		detalles = append(detalles, &entity.FacturaDetalle{
			ID:             uuid.New().String(),
			FacturaID:      factura.ID,
			LineNumber:     i + 1,
			Descripcion:    l.Descripcion,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			TipAfeIgv:      l.TipAfeIgv,
			BolsaPlastica:  l.BolsaPlastica,
			Subtotal:       l.MtoValorVenta,
			Igv:            l.Igv,
			Icbper:         l.Icbper,
		})
	}

	// Cabecera y todas sus líneas en una sola transacción.
	err = uc.txRunner.RunFactura(ctx, func(facturaRepo repository.FacturaRepository) error {
		if err := facturaRepo.Create(factura); err != nil {
			return err
		}
		for _, det := range detalles {
			if err := facturaRepo.CreateDetalle(det); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toFacturaResponse(factura, detalles), nil
}

// GetFactura obtiene una factura por ID con su detalle, verificando que el
// emisor pertenezca al usuario.
func (uc *FacturaUseCase) GetFactura(ctx context.Context, userID, id string) (*dto.FacturaResponse, error) {
	factura, _, err := uc.facturaDelUsuario(userID, id)
	if err != nil {
		return nil, err
	}
	detalles, err := uc.facturaRepo.GetDetallesByFacturaID(id)
	if err != nil {
		return nil, err
	}
	return toFacturaResponse(factura, detalles), nil
}

// ListFacturas lista las facturas de una empresa del usuario.
func (uc *FacturaUseCase) ListFacturas(ctx context.Context, userID, companyRuc string, page dto.PageRequest) (*dto.FacturaListResponse, error) {
	page.DefaultPage()
	company, err := uc.companyRepo.GetByRucAndUser(companyRuc, userID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrForbidden
	}
	facturas, err := uc.facturaRepo.ListByCompany(company.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FacturaResponse, 0, len(facturas))
	for _, f := range facturas {
		items = append(items, *toFacturaResponse(f, nil))
	}
	return &dto.FacturaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// facturaDelUsuario carga la factura y valida que su empresa pertenezca al usuario.
func (uc *FacturaUseCase) facturaDelUsuario(userID, id string) (*entity.Factura, *entity.Company, error) {
	factura, err := uc.facturaRepo.GetByID(id)
	if err != nil || factura == nil {
		return nil, nil, domain.ErrNotFound
	}
	company, err := uc.companyRepo.GetByID(factura.CompanyID)
	if err != nil || company == nil {
		return nil, nil, domain.ErrNotFound
	}
	if company.UserID != userID {
		return nil, nil, domain.ErrForbidden
	}
	return factura, company, nil
}

// lineasFromDetalles reconstruye los insumos del cálculo desde las líneas
// persistidas; los montos derivados se recalculan siempre, no se releen.
func lineasFromDetalles(detalles []*entity.FacturaDetalle) []domsunat.LineaInput {
	lineas := make([]domsunat.LineaInput, 0, len(detalles))
	for _, d := range detalles {
		lineas = append(lineas, domsunat.LineaInput{
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			TipAfeIgv:      d.TipAfeIgv,
			BolsaPlastica:  d.BolsaPlastica,
		})
	}
	return lineas
}

// ensamblarDesdeRegistro vuelve a ensamblar el documento canónico desde un
// registro persistido y sus líneas.
func ensamblarDesdeRegistro(f *entity.Factura, c *entity.Company, lineas []domsunat.LineaInput, cfg domsunat.Config) (*domsunat.Documento, error) {
	return domsunat.Ensamblar(
		empresaFromCompany(c),
		domsunat.Cliente{
			TipoDoc:   f.TipoDocCliente,
			NumDoc:    f.NumDocCliente,
			RznSocial: f.NombreCliente,
			Direccion: f.DireccionCliente,
		},
		lineas,
		domsunat.Cabecera{
			Serie:        f.Serie,
			Correlativo:  f.Correlativo,
			FechaEmision: f.FechaEmision,
			TipoMoneda:   f.Moneda,
		},
		cfg,
	)
}

func empresaFromCompany(c *entity.Company) domsunat.Empresa {
	return domsunat.Empresa{
		Ruc:             c.RUC,
		RazonSocial:     c.RazonSocial,
		NombreComercial: c.NombreComercial,
		Direccion: domsunat.Direccion{
			Ubigeo:       c.Ubigeo,
			Departamento: c.Departamento,
			Provincia:    c.Provincia,
			Distrito:     c.Distrito,
			Direccion:    c.Direccion,
		},
	}
}

func toFacturaResponse(f *entity.Factura, detalles []*entity.FacturaDetalle) *dto.FacturaResponse {
	if f == nil {
		return nil
	}
	resp := &dto.FacturaResponse{
		ID:               f.ID,
		CompanyID:        f.CompanyID,
		Serie:            f.Serie,
		Correlativo:      f.Correlativo,
		FechaEmision:     f.FechaEmision.Format("2006-01-02"),
		Moneda:           f.Moneda,
		TipoDocCliente:   f.TipoDocCliente,
		NumDocCliente:    f.NumDocCliente,
		NombreCliente:    f.NombreCliente,
		DireccionCliente: f.DireccionCliente,
		Subtotal:         f.Subtotal,
		Igv:              f.Igv,
		Total:            f.Total,
		Estado:           f.Estado,
		SunatResponse:    f.SunatResponse,
		PdfPath:          f.PdfPath,
		XmlPath:          f.XmlPath,
		CdrPath:          f.CdrPath,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
	if f.FechaVencimiento != nil {
		resp.FechaVencimiento = f.FechaVencimiento.Format("2006-01-02")
	}
	for _, d := range detalles {
		resp.Detalles = append(resp.Detalles, dto.FacturaDetalleResponse{
			ID:             d.ID,
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			TipAfeIgv:      d.TipAfeIgv,
			BolsaPlastica:  d.BolsaPlastica,
			Subtotal:       d.Subtotal,
			Igv:            d.Igv,
			Icbper:         d.Icbper,
		})
	}
	return resp
}
