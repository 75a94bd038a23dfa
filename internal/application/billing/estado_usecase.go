package billing

import (
	"context"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/application/dto"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
	"github.com/tu-usuario/facturador-pe/pkg/logger"
)

// EstadoUseCase transiciones manuales de estado y barrido de vencidas.
// Las reglas de transición viven en la entidad; aquí solo se orquesta la
// autorización, la persistencia y el log.
type EstadoUseCase struct {
	facturaUC   *FacturaUseCase
	facturaRepo repository.FacturaRepository
	companyRepo repository.CompanyRepository
	log         *logger.Logger
}

// NewEstadoUseCase construye el caso de uso de estados.
func NewEstadoUseCase(
	facturaUC *FacturaUseCase,
	facturaRepo repository.FacturaRepository,
	companyRepo repository.CompanyRepository,
	log *logger.Logger,
) *EstadoUseCase {
	return &EstadoUseCase{
		facturaUC:   facturaUC,
		facturaRepo: facturaRepo,
		companyRepo: companyRepo,
		log:         log,
	}
}

// ChangeEstado aplica un cambio manual de estado solicitado por el operador.
func (uc *EstadoUseCase) ChangeEstado(ctx context.Context, userID, facturaID string, in dto.ChangeEstadoRequest) (*dto.FacturaResponse, error) {
	factura, _, err := uc.facturaUC.facturaDelUsuario(userID, facturaID)
	if err != nil {
		return nil, err
	}

	switch in.Estado {
	case entity.EstadoPagada:
		err = factura.MarcarPagada()
	case entity.EstadoVencida:
		err = factura.MarcarVencida()
	case entity.EstadoAnulada:
		err = factura.Anular()
	default:
		err = domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	factura.UpdatedAt = time.Now()
	if err := uc.facturaRepo.Update(factura); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("factura_id", factura.ID).
		Str("estado", factura.Estado).
		Msg("cambio manual de estado")
	return toFacturaResponse(factura, nil), nil
}

// Anular aplica la anulación lógica. El registro y sus líneas siguen
// consultables; solo cambia el estado y la anulación es definitiva.
func (uc *EstadoUseCase) Anular(ctx context.Context, userID, facturaID string) (*dto.FacturaResponse, error) {
	return uc.ChangeEstado(ctx, userID, facturaID, dto.ChangeEstadoRequest{Estado: entity.EstadoAnulada})
}

// SweepVencidas marca Vencida toda factura Pendiente de la empresa cuya
// fecha de vencimiento sea anterior a asOf. Devuelve cuántas transicionaron.
// La política de cuándo correr el barrido es del caller (cron, endpoint).
func (uc *EstadoUseCase) SweepVencidas(ctx context.Context, userID, companyRuc string, asOf time.Time) (int, error) {
	company, err := uc.companyRepo.GetByRucAndUser(companyRuc, userID)
	if err != nil {
		return 0, err
	}
	if company == nil {
		return 0, domain.ErrForbidden
	}

	facturas, err := uc.facturaRepo.ListVencibles(company.ID, asOf)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, f := range facturas {
		if err := f.MarcarVencida(); err != nil {
			continue
		}
		f.UpdatedAt = time.Now()
		if err := uc.facturaRepo.Update(f); err != nil {
			uc.log.Error().Err(err).Str("factura_id", f.ID).Msg("no se pudo marcar vencida")
			continue
		}
		swept++
	}
	if swept > 0 {
		uc.log.Info().Int("vencidas", swept).Str("company_id", company.ID).Msg("barrido de vencidas")
	}
	return swept, nil
}
