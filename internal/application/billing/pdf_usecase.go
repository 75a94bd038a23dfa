package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
	"github.com/tu-usuario/facturador-pe/pkg/logger"
)

// PdfUseCase genera la representación impresa. Un fallo del renderizador se
// devuelve como ErrRender tipado; el handler HTTP nunca debe responder
// application/pdf con un cuerpo que no sea un PDF.
type PdfUseCase struct {
	facturaUC   *FacturaUseCase
	facturaRepo repository.FacturaRepository
	generator   PDFGenerator
	store       ArtifactStore
	log         *logger.Logger
}

// NewPdfUseCase construye el caso de uso de PDF.
func NewPdfUseCase(
	facturaUC *FacturaUseCase,
	facturaRepo repository.FacturaRepository,
	generator PDFGenerator,
	store ArtifactStore,
	log *logger.Logger,
) *PdfUseCase {
	return &PdfUseCase{
		facturaUC:   facturaUC,
		facturaRepo: facturaRepo,
		generator:   generator,
		store:       store,
		log:         log,
	}
}

// Generate renderiza el PDF de la factura y materializa pdf_path si aún no
// existe. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *PdfUseCase) Generate(ctx context.Context, userID, facturaID string) ([]byte, string, error) {
	factura, company, err := uc.facturaUC.facturaDelUsuario(userID, facturaID)
	if err != nil {
		return nil, "", err
	}

	detalles, err := uc.facturaRepo.GetDetallesByFacturaID(facturaID)
	if err != nil {
		return nil, "", err
	}
	lineas := lineasFromDetalles(detalles)
	doc, err := ensamblarDesdeRegistro(factura, company, lineas, uc.facturaUC.taxCfg)
	if err != nil {
		return nil, "", err
	}

	hash := ""
	if factura.SunatResponse != nil {
		hash = factura.SunatResponse.Hash
	}

	pdf, err := uc.generator.Generate(doc, company, hash)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	name := factura.Name(company.RUC) + ".pdf"
	if factura.PdfPath == "" {
		if path, err := uc.store.Put(name, pdf); err == nil {
			factura.PdfPath = path
			factura.UpdatedAt = time.Now()
			if err := uc.facturaRepo.Update(factura); err != nil {
				uc.log.Error().Err(err).Str("factura_id", factura.ID).Msg("no se pudo persistir pdf_path")
			}
		} else {
			uc.log.Error().Err(err).Str("factura_id", factura.ID).Msg("no se pudo guardar el PDF")
		}
	}
	return pdf, name, nil
}
