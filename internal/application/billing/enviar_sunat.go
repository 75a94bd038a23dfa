package billing

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/application/dto"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	"github.com/tu-usuario/facturador-pe/pkg/logger"
)

// EnviarSunatUseCase firma y envía una factura pendiente a SUNAT y persiste
// el desenlace. Aceptación marca la factura Pagada y guarda XML y CDR;
// rechazo y falla de transporte se registran como dato en sunat_response y la
// factura queda Pendiente para corregir y reenviar.
type EnviarSunatUseCase struct {
	facturaUC   *FacturaUseCase
	facturaRepo repository.FacturaRepository
	transmitter Transmitter
	store       ArtifactStore
	log         *logger.Logger
}

// NewEnviarSunatUseCase construye el caso de uso de envío.
func NewEnviarSunatUseCase(
	facturaUC *FacturaUseCase,
	facturaRepo repository.FacturaRepository,
	transmitter Transmitter,
	store ArtifactStore,
	log *logger.Logger,
) *EnviarSunatUseCase {
	return &EnviarSunatUseCase{
		facturaUC:   facturaUC,
		facturaRepo: facturaRepo,
		transmitter: transmitter,
		store:       store,
		log:         log,
	}
}

// Enviar ejecuta el flujo completo: guardas de estado, reconstrucción del
// documento canónico desde el registro, transmisión e interpretación del
// resultado. Solo la aceptación transiciona el estado.
func (uc *EnviarSunatUseCase) Enviar(ctx context.Context, userID, facturaID string) (*dto.EnvioSunatResponse, error) {
	factura, company, err := uc.facturaUC.facturaDelUsuario(userID, facturaID)
	if err != nil {
		return nil, err
	}
	if err := factura.PuedeEnviarse(); err != nil {
		return nil, err
	}

	doc, detalles, err := uc.rebuildDocumento(factura, company)
	if err != nil {
		return nil, err
	}

	raw, submitErr := uc.transmitter.Submit(ctx, doc, company)
	outcome := domsunat.Interpret(raw, submitErr)

	resp := &dto.EnvioSunatResponse{}
	switch {
	case outcome.Transport != nil:
		// Intento fallido: queda registrado pero la factura sigue Pendiente.
		uc.log.Warn().
			Str("factura_id", factura.ID).
			Str("codigo", outcome.Transport.Code).
			Str("detalle", outcome.Transport.Message).
			Msg("fallo de transporte al enviar a SUNAT")
		factura.SunatResponse = &entity.SunatResponse{
			Success: false,
			Error:   &entity.SunatError{Code: outcome.Transport.Code, Message: outcome.Transport.Message},
		}
	case outcome.Accepted():
		if err := factura.MarcarPagada(); err != nil {
			return nil, err
		}
		factura.SunatResponse = &entity.SunatResponse{
			Success: true,
			Hash:    outcome.Raw.Hash,
			CdrResponse: &entity.CdrData{
				Code:        outcome.Evaluated.Receipt.Code,
				Description: outcome.Evaluated.Receipt.Description,
				Notes:       outcome.Evaluated.Receipt.Notes,
			},
		}
		uc.storeArtifacts(factura, company, outcome.Raw)
		resp.Xml = base64.StdEncoding.EncodeToString(outcome.Raw.XML)
		resp.Hash = outcome.Raw.Hash
		uc.log.Info().
			Str("factura_id", factura.ID).
			Int("cdr_code", outcome.Evaluated.Receipt.Code).
			Msg("factura aceptada por SUNAT")
	default:
		// Rechazo evaluado: dato, no excepción. El operador corrige y reenvía.
		factura.SunatResponse = &entity.SunatResponse{
			Success: false,
			Hash:    outcome.Raw.Hash,
			Error:   &entity.SunatError{Code: outcome.Evaluated.Error.Code, Message: outcome.Evaluated.Error.Message},
		}
		resp.Xml = base64.StdEncoding.EncodeToString(outcome.Raw.XML)
		resp.Hash = outcome.Raw.Hash
		uc.log.Warn().
			Str("factura_id", factura.ID).
			Str("codigo", outcome.Evaluated.Error.Code).
			Msg("factura rechazada por SUNAT")
	}

	factura.UpdatedAt = time.Now()
	if err := uc.facturaRepo.Update(factura); err != nil {
		return nil, err
	}

	resp.SunatResponse = factura.SunatResponse
	resp.Factura = toFacturaResponse(factura, detalles)
	return resp, nil
}

// SignedXML firma el comprobante sin enviarlo (descarga del XML).
func (uc *EnviarSunatUseCase) SignedXML(ctx context.Context, userID, facturaID string) ([]byte, string, error) {
	factura, company, err := uc.facturaUC.facturaDelUsuario(userID, facturaID)
	if err != nil {
		return nil, "", err
	}
	doc, _, err := uc.rebuildDocumento(factura, company)
	if err != nil {
		return nil, "", err
	}
	xml, _, err := uc.transmitter.SignedXML(doc, company)
	if err != nil {
		return nil, "", err
	}
	return xml, doc.Name() + ".xml", nil
}

// rebuildDocumento reconstruye el documento canónico desde el registro
// persistido; el cálculo se rehace desde las líneas para que los totales
// enviados siempre deriven de ellas.
func (uc *EnviarSunatUseCase) rebuildDocumento(factura *entity.Factura, company *entity.Company) (*domsunat.Documento, []*entity.FacturaDetalle, error) {
	detalles, err := uc.facturaRepo.GetDetallesByFacturaID(factura.ID)
	if err != nil {
		return nil, nil, err
	}
	doc, err := ensamblarDesdeRegistro(factura, company, lineasFromDetalles(detalles), uc.facturaUC.taxCfg)
	if err != nil {
		return nil, nil, err
	}
	return doc, detalles, nil
}

// storeArtifacts materializa XML firmado y CDR en el almacén local. Un fallo
// aquí no revierte la aceptación; se registra y las rutas quedan vacías.
func (uc *EnviarSunatUseCase) storeArtifacts(factura *entity.Factura, company *entity.Company, raw *domsunat.RawResult) {
	name := factura.Name(company.RUC)
	if len(raw.XML) > 0 {
		if path, err := uc.store.Put(name+".xml", raw.XML); err == nil {
			factura.XmlPath = path
		} else {
			uc.log.Error().Err(err).Str("factura_id", factura.ID).Msg("no se pudo guardar el XML firmado")
		}
	}
	if len(raw.CDRZip) > 0 {
		if path, err := uc.store.Put("R-"+name+".zip", raw.CDRZip); err == nil {
			factura.CdrPath = path
		} else {
			uc.log.Error().Err(err).Str("factura_id", factura.ID).Msg("no se pudo guardar el CDR")
		}
	}
}
