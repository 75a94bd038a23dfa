package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
)

func docPrueba() *domsunat.Documento {
	return &domsunat.Documento{
		Serie:       "F001",
		Correlativo: "00000001",
		Company:     domsunat.Empresa{Ruc: testRUC},
	}
}

func retryCfg(attempts int) billing.RetryConfig {
	return billing.RetryConfig{Attempts: attempts, BaseWait: time.Millisecond}
}

func TestRetry_ReintentaSoloTransporte(t *testing.T) {
	stub := &stubTransmitter{
		results: []*domsunat.RawResult{nil, rawAceptado()},
		errs:    []error{&domsunat.TransmitError{Message: "timeout"}, nil},
	}
	rt := billing.NewRetryingTransmitter(stub, retryCfg(2), testLogger())

	raw, err := rt.Submit(context.Background(), docPrueba(), companyPrueba())
	require.NoError(t, err)
	assert.True(t, raw.Success)
	assert.Equal(t, 2, stub.calls, "un reintento tras la falla de transporte")
}

func TestRetry_AgotaIntentosYDevuelveUltimoError(t *testing.T) {
	te := &domsunat.TransmitError{Message: "connection refused"}
	stub := &stubTransmitter{errs: []error{te, te, te}}
	rt := billing.NewRetryingTransmitter(stub, retryCfg(2), testLogger())

	_, err := rt.Submit(context.Background(), docPrueba(), companyPrueba())
	require.Error(t, err)
	var got *domsunat.TransmitError
	assert.ErrorAs(t, err, &got)
	assert.Equal(t, 3, stub.calls, "envío inicial más dos reintentos")
}

func TestRetry_ErrorNoTransporteNoSeReintenta(t *testing.T) {
	stub := &stubTransmitter{errs: []error{errors.New("certificado corrupto")}}
	rt := billing.NewRetryingTransmitter(stub, retryCfg(5), testLogger())

	_, err := rt.Submit(context.Background(), docPrueba(), companyPrueba())
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestRetry_RechazoEvaluadoNoSeReintenta(t *testing.T) {
	raw := &domsunat.RawResult{Success: false, Error: &domsunat.SunatErrorData{Code: "2335"}}
	stub := &stubTransmitter{results: []*domsunat.RawResult{raw}}
	rt := billing.NewRetryingTransmitter(stub, retryCfg(5), testLogger())

	got, err := rt.Submit(context.Background(), docPrueba(), companyPrueba())
	require.NoError(t, err, "el rechazo viaja como dato, no como error")
	assert.False(t, got.Success)
	assert.Equal(t, 1, stub.calls, "un veredicto de SUNAT nunca se reintenta")
}

func TestRetry_RespetaCancelacionDelContexto(t *testing.T) {
	te := &domsunat.TransmitError{Message: "timeout"}
	stub := &stubTransmitter{errs: []error{te, te, te, te}}
	rt := billing.NewRetryingTransmitter(stub, billing.RetryConfig{Attempts: 3, BaseWait: time.Minute}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := rt.Submit(ctx, docPrueba(), companyPrueba())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stub.calls, "no espera el backoff con el contexto cancelado")
}
