package billing

import (
	"context"
	"errors"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	"github.com/tu-usuario/facturador-pe/pkg/logger"
)

// RetryConfig política de reintentos ante fallas de transporte.
type RetryConfig struct {
	Attempts int           // reintentos adicionales al primer envío (0 = sin reintentos)
	BaseWait time.Duration // espera inicial; se duplica en cada reintento
}

// RetryingTransmitter decora un Transmitter con reintentos acotados y backoff
// exponencial. Solo reintenta fallas de transporte: un rechazo evaluado por
// SUNAT es un veredicto, reenviar el mismo XML devolvería el mismo rechazo.
// El motor y los casos de uso quedan ajenos a la política de reintentos.
type RetryingTransmitter struct {
	inner Transmitter
	cfg   RetryConfig
	log   *logger.Logger
}

// NewRetryingTransmitter decora el transmisor con la política dada.
func NewRetryingTransmitter(inner Transmitter, cfg RetryConfig, log *logger.Logger) *RetryingTransmitter {
	return &RetryingTransmitter{inner: inner, cfg: cfg, log: log}
}

// Submit delega en el transmisor interno, reintentando solo ante
// sunat.TransmitError. Respeta la cancelación del contexto entre intentos.
func (t *RetryingTransmitter) Submit(ctx context.Context, doc *domsunat.Documento, company *entity.Company) (*domsunat.RawResult, error) {
	wait := t.cfg.BaseWait
	var lastErr error
	for attempt := 0; attempt <= t.cfg.Attempts; attempt++ {
		if attempt > 0 {
			t.log.Warn().
				Str("documento", doc.Name()).
				Int("intento", attempt+1).
				Dur("espera", wait).
				Msg("reintentando envío a SUNAT")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
		raw, err := t.inner.Submit(ctx, doc, company)
		if err == nil {
			return raw, nil
		}
		var te *domsunat.TransmitError
		if !errors.As(err, &te) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// SignedXML no implica red; delega sin reintentos.
func (t *RetryingTransmitter) SignedXML(doc *domsunat.Documento, company *entity.Company) ([]byte, string, error) {
	return t.inner.SignedXML(doc, company)
}
