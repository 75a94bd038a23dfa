package sunat_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

func emisorPrueba() sunat.Empresa {
	return sunat.Empresa{
		Ruc:         "20123456786",
		RazonSocial: "COMERCIAL ANDINA S.A.C.",
		Direccion: sunat.Direccion{
			Ubigeo:       "150101",
			Departamento: "LIMA",
			Provincia:    "LIMA",
			Distrito:     "LIMA",
			Direccion:    "AV. AREQUIPA 1234",
		},
	}
}

func clientePrueba() sunat.Cliente {
	return sunat.Cliente{
		TipoDoc:   pkgsunat.IdentityDocDNI,
		NumDoc:    "45678912",
		RznSocial: "JUAN PEREZ QUISPE",
	}
}

func cabeceraPrueba() sunat.Cabecera {
	return sunat.Cabecera{
		Serie:        "F001",
		Correlativo:  "123",
		FechaEmision: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestEnsamblar_DocumentoCompleto(t *testing.T) {
	doc, err := sunat.Ensamblar(
		emisorPrueba(), clientePrueba(),
		[]sunat.LineaInput{lineaGravada("2", "11.80")},
		cabeceraPrueba(), configPrueba(),
	)
	require.NoError(t, err)

	// Constantes estampadas por el ensamblador.
	assert.Equal(t, "2.1", doc.UblVersion)
	assert.Equal(t, "0101", doc.TipoOperacion)
	assert.Equal(t, "01", doc.TipoDoc)
	assert.Equal(t, "PEN", doc.TipoMoneda, "moneda por defecto cuando no se indica")

	// Snapshot de emisor y cliente.
	assert.Equal(t, "20123456786", doc.Company.Ruc)
	assert.Equal(t, "JUAN PEREZ QUISPE", doc.Client.RznSocial)

	// Totales calculados y leyenda obligatoria con el importe en letras.
	require.Len(t, doc.Details, 1)
	require.Len(t, doc.Legends, 1)
	assert.Equal(t, pkgsunat.LegendMontoEnLetras, doc.Legends[0].Code)
	assert.Equal(t, sunat.Letras(doc.Totales.MtoImpVenta), doc.Legends[0].Value)

	assert.Equal(t, "20123456786-01-F001-123", doc.Name())
}

func TestEnsamblar_RespetaMonedaIndicada(t *testing.T) {
	cab := cabeceraPrueba()
	cab.TipoMoneda = pkgsunat.CurrencyUSD

	doc, err := sunat.Ensamblar(emisorPrueba(), clientePrueba(),
		[]sunat.LineaInput{lineaGravada("1", "11.80")}, cab, configPrueba())
	require.NoError(t, err)
	assert.Equal(t, "USD", doc.TipoMoneda)
}

func TestEnsamblar_EsPuro(t *testing.T) {
	lineas := []sunat.LineaInput{lineaGravada("2", "11.80")}
	d1, err1 := sunat.Ensamblar(emisorPrueba(), clientePrueba(), lineas, cabeceraPrueba(), configPrueba())
	d2, err2 := sunat.Ensamblar(emisorPrueba(), clientePrueba(), lineas, cabeceraPrueba(), configPrueba())
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, d1, d2, "mismos insumos deben producir el mismo documento")
}

// ── Errores de validación ─────────────────────────────────────────────────────

func TestEnsamblar_ErrorRucEmisorInvalido(t *testing.T) {
	e := emisorPrueba()
	e.Ruc = "20123456780" // dígito verificador incorrecto
	_, err := sunat.Ensamblar(e, clientePrueba(),
		[]sunat.LineaInput{lineaGravada("1", "11.80")}, cabeceraPrueba(), configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsamblar_ErrorSerieVacia(t *testing.T) {
	cab := cabeceraPrueba()
	cab.Serie = ""
	_, err := sunat.Ensamblar(emisorPrueba(), clientePrueba(),
		[]sunat.LineaInput{lineaGravada("1", "11.80")}, cab, configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsamblar_ErrorTipoDocClienteDesconocido(t *testing.T) {
	c := clientePrueba()
	c.TipoDoc = "9"
	_, err := sunat.Ensamblar(emisorPrueba(), c,
		[]sunat.LineaInput{lineaGravada("1", "11.80")}, cabeceraPrueba(), configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsamblar_ErrorSinLineas(t *testing.T) {
	_, err := sunat.Ensamblar(emisorPrueba(), clientePrueba(), nil, cabeceraPrueba(), configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsamblar_ErrorLineaInvalidaAntesDeCalcular(t *testing.T) {
	l := lineaGravada("1", "11.80")
	l.PrecioUnitario = decimal.Zero
	_, err := sunat.Ensamblar(emisorPrueba(), clientePrueba(),
		[]sunat.LineaInput{l}, cabeceraPrueba(), configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
