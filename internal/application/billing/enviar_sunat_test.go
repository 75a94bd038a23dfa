package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/application/dto"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
)

const (
	testUserID  = "user-1"
	testOtroID  = "user-2"
	testRUC     = "20123456786"
	testCompany = "company-1"
)

func companyPrueba() *entity.Company {
	return &entity.Company{
		ID:           testCompany,
		UserID:       testUserID,
		RUC:          testRUC,
		RazonSocial:  "COMERCIAL ANDINA S.A.C.",
		Direccion:    "AV. AREQUIPA 1234",
		Ubigeo:       "150101",
		Departamento: "LIMA",
		Provincia:    "LIMA",
		Distrito:     "LIMA",
		SolUser:      "MODDATOS",
		SolPass:      "moddatos",
	}
}

func taxCfgPrueba() domsunat.Config {
	return domsunat.Config{
		TasaIGV:      decimal.NewFromFloat(0.18),
		FactorICBPER: decimal.NewFromFloat(0.50),
	}
}

type escenario struct {
	facturaRepo *memFacturaRepo
	companyRepo *memCompanyRepo
	facturaUC   *billing.FacturaUseCase
	trans       *stubTransmitter
	store       *memStore
	enviarUC    *billing.EnviarSunatUseCase
	estadoUC    *billing.EstadoUseCase
}

func nuevoEscenario(t *testing.T, trans *stubTransmitter) *escenario {
	t.Helper()
	facturaRepo := newMemFacturaRepo()
	companyRepo := newMemCompanyRepo(companyPrueba())
	facturaUC := billing.NewFacturaUseCase(noTxRunner{repo: facturaRepo}, facturaRepo, companyRepo, taxCfgPrueba())
	store := newMemStore()
	log := testLogger()
	return &escenario{
		facturaRepo: facturaRepo,
		companyRepo: companyRepo,
		facturaUC:   facturaUC,
		trans:       trans,
		store:       store,
		enviarUC:    billing.NewEnviarSunatUseCase(facturaUC, facturaRepo, trans, store, log),
		estadoUC:    billing.NewEstadoUseCase(facturaUC, facturaRepo, companyRepo, log),
	}
}

func crearFacturaPrueba(t *testing.T, esc *escenario) string {
	t.Helper()
	resp, err := esc.facturaUC.CreateFactura(context.Background(), testUserID, dto.CreateFacturaRequest{
		CompanyRuc:     testRUC,
		Serie:          "F001",
		Correlativo:    "00000001",
		TipoDocCliente: "1",
		NumDocCliente:  "45678912",
		NombreCliente:  "JUAN PEREZ QUISPE",
		Detalles: []dto.FacturaDetalleRequest{
			{Descripcion: "Servicio de consultoría", Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.RequireFromString("11.80")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, entity.EstadoPendiente, resp.Estado, "toda factura nace Pendiente")
	return resp.ID
}

func rawAceptado() *domsunat.RawResult {
	return &domsunat.RawResult{
		XML:     []byte("<Invoice/>"),
		Hash:    "abc123=",
		Success: true,
		CDR: &domsunat.CDRResponse{
			Code:        0,
			Description: "La Factura numero F001-00000001, ha sido aceptada",
		},
		CDRZip: []byte{0x50, 0x4b, 0x03, 0x04},
	}
}

func TestEnviar_AceptacionMarcaPagadaYGuardaArtefactos(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{results: []*domsunat.RawResult{rawAceptado()}})
	id := crearFacturaPrueba(t, esc)

	resp, err := esc.enviarUC.Enviar(context.Background(), testUserID, id)
	require.NoError(t, err)

	require.NotNil(t, resp.SunatResponse)
	assert.True(t, resp.SunatResponse.Success)
	assert.Equal(t, "abc123=", resp.SunatResponse.Hash)
	require.NotNil(t, resp.SunatResponse.CdrResponse)
	assert.Contains(t, resp.SunatResponse.CdrResponse.Description, "aceptada")

	persistida, err := esc.facturaRepo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPagada, persistida.Estado)
	assert.NotEmpty(t, persistida.XmlPath, "el XML firmado debe materializarse")
	assert.NotEmpty(t, persistida.CdrPath, "el CDR debe materializarse")
}

func TestEnviar_RechazoQuedaPendienteConError(t *testing.T) {
	raw := &domsunat.RawResult{
		XML:     []byte("<Invoice/>"),
		Hash:    "abc123=",
		Success: false,
		Error:   &domsunat.SunatErrorData{Code: "2335", Message: "El documento ya fue presentado anteriormente"},
	}
	esc := nuevoEscenario(t, &stubTransmitter{results: []*domsunat.RawResult{raw}})
	id := crearFacturaPrueba(t, esc)

	resp, err := esc.enviarUC.Enviar(context.Background(), testUserID, id)
	require.NoError(t, err, "el rechazo es dato, no error")

	require.NotNil(t, resp.SunatResponse)
	assert.False(t, resp.SunatResponse.Success)
	assert.Equal(t, "2335", resp.SunatResponse.Error.Code)

	persistida, _ := esc.facturaRepo.GetByID(id)
	assert.Equal(t, entity.EstadoPendiente, persistida.Estado, "la factura queda Pendiente para corregir y reenviar")
	require.NotNil(t, persistida.SunatResponse)
	assert.Equal(t, "2335", persistida.SunatResponse.Error.Code)
}

func TestEnviar_FallaDeTransporteRegistraIntento(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{
		errs: []error{&domsunat.TransmitError{Code: "http-503", Message: "service unavailable"}},
	})
	id := crearFacturaPrueba(t, esc)

	resp, err := esc.enviarUC.Enviar(context.Background(), testUserID, id)
	require.NoError(t, err, "la falla de transporte tampoco sube como error")

	require.NotNil(t, resp.SunatResponse)
	assert.False(t, resp.SunatResponse.Success)
	assert.Equal(t, "http-503", resp.SunatResponse.Error.Code)
	assert.Empty(t, resp.Xml, "sin evaluación no hay XML ni hash en la respuesta")

	persistida, _ := esc.facturaRepo.GetByID(id)
	assert.Equal(t, entity.EstadoPendiente, persistida.Estado)
}

func TestEnviar_PagadaEsConflicto(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{results: []*domsunat.RawResult{rawAceptado(), rawAceptado()}})
	id := crearFacturaPrueba(t, esc)

	_, err := esc.enviarUC.Enviar(context.Background(), testUserID, id)
	require.NoError(t, err)

	_, err = esc.enviarUC.Enviar(context.Background(), testUserID, id)
	assert.ErrorIs(t, err, domain.ErrConflict, "reenviar una factura aceptada duplicaría el comprobante")
	assert.Equal(t, 1, esc.trans.calls, "no debe llegar a SUNAT un segundo envío")
}

func TestEnviar_AnuladaSeRechaza(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{results: []*domsunat.RawResult{rawAceptado()}})
	id := crearFacturaPrueba(t, esc)

	_, err := esc.estadoUC.Anular(context.Background(), testUserID, id)
	require.NoError(t, err)

	_, err = esc.enviarUC.Enviar(context.Background(), testUserID, id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, esc.trans.calls)
}

func TestEnviar_UsuarioAjenoEsForbidden(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{results: []*domsunat.RawResult{rawAceptado()}})
	id := crearFacturaPrueba(t, esc)

	_, err := esc.enviarUC.Enviar(context.Background(), testOtroID, id)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el emisor debe pertenecer al usuario autenticado")
	assert.Zero(t, esc.trans.calls)
}

func TestCreateFactura_EmpresaAjenaEsForbidden(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{})
	_, err := esc.facturaUC.CreateFactura(context.Background(), testOtroID, dto.CreateFacturaRequest{
		CompanyRuc:     testRUC,
		Serie:          "F001",
		Correlativo:    "00000001",
		TipoDocCliente: "1",
		NumDocCliente:  "45678912",
		NombreCliente:  "JUAN PEREZ QUISPE",
		Detalles: []dto.FacturaDetalleRequest{
			{Descripcion: "X", Cantidad: decimal.NewFromInt(1), PrecioUnitario: decimal.RequireFromString("11.80")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSweepVencidas_SoloPendientesVencidas(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{})
	id := crearFacturaPrueba(t, esc)

	// Retro-datar el vencimiento directamente en el repo.
	f, _ := esc.facturaRepo.GetByID(id)
	ayer := time.Now().Add(-24 * time.Hour)
	f.FechaVencimiento = &ayer
	require.NoError(t, esc.facturaRepo.Update(f))

	swept, err := esc.estadoUC.SweepVencidas(context.Background(), testUserID, testRUC, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	persistida, _ := esc.facturaRepo.GetByID(id)
	assert.Equal(t, entity.EstadoVencida, persistida.Estado)

	// Idempotente: un segundo barrido no encuentra nada.
	swept, err = esc.estadoUC.SweepVencidas(context.Background(), testUserID, testRUC, time.Now())
	require.NoError(t, err)
	assert.Zero(t, swept)
}

func TestChangeEstado_VencidaPuedePagarse(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{})
	id := crearFacturaPrueba(t, esc)

	_, err := esc.estadoUC.ChangeEstado(context.Background(), testUserID, id, dto.ChangeEstadoRequest{Estado: entity.EstadoVencida})
	require.NoError(t, err)

	resp, err := esc.estadoUC.ChangeEstado(context.Background(), testUserID, id, dto.ChangeEstadoRequest{Estado: entity.EstadoPagada})
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPagada, resp.Estado)
}

func TestAnular_EsDefinitiva(t *testing.T) {
	esc := nuevoEscenario(t, &stubTransmitter{})
	id := crearFacturaPrueba(t, esc)

	_, err := esc.estadoUC.Anular(context.Background(), testUserID, id)
	require.NoError(t, err)

	_, err = esc.estadoUC.Anular(context.Background(), testUserID, id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Anulación lógica: el registro y sus líneas siguen consultables.
	resp, err := esc.facturaUC.GetFactura(context.Background(), testUserID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAnulada, resp.Estado)
	assert.NotEmpty(t, resp.Detalles)
}
