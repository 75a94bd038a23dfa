package sunat_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

func configPrueba() sunat.Config {
	return sunat.Config{
		TasaIGV:      decimal.NewFromFloat(0.18),
		FactorICBPER: decimal.NewFromFloat(0.20),
	}
}

func lineaGravada(cantidad, precio string) sunat.LineaInput {
	return sunat.LineaInput{
		Descripcion:    "Producto de prueba",
		Cantidad:       decimal.RequireFromString(cantidad),
		PrecioUnitario: decimal.RequireFromString(precio),
		TipAfeIgv:      pkgsunat.AfectacionGravada,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: dos líneas gravadas, la segunda con bolsa plástica.
//
//	(cant 2, precio 11.80)            → valor neto 20.00,   IGV 3.60
//	(cant 1, precio 5.00, bolsa 0.20) → valor neto 4.2373…, IGV 0.7627…
//
// mtoOperGravadas ≈ 24.24, mtoIGV ≈ 4.36, icbper 0.20, subTotal ≈ 28.60.
// ──────────────────────────────────────────────────────────────────────────────

func TestCalcular_EscenarioReferencia(t *testing.T) {
	lineas := []sunat.LineaInput{
		lineaGravada("2", "11.80"),
		{
			Descripcion:    "Bolsa plástica",
			Cantidad:       decimal.NewFromInt(1),
			PrecioUnitario: decimal.RequireFromString("5.00"),
			TipAfeIgv:      pkgsunat.AfectacionGravada,
			BolsaPlastica:  true,
		},
	}

	calc, tot, err := sunat.Calcular(lineas, configPrueba())
	require.NoError(t, err)
	require.Len(t, calc, 2)

	assert.True(t, calc[0].MtoValorVenta.Sub(decimal.RequireFromString("20.00")).Abs().LessThan(decimal.RequireFromString("0.0001")),
		"valor neto de la primera línea debe ser 20.00, fue %s", calc[0].MtoValorVenta)
	assert.True(t, calc[0].Igv.Sub(decimal.RequireFromString("3.60")).Abs().LessThan(decimal.RequireFromString("0.0001")),
		"IGV de la primera línea debe ser 3.60, fue %s", calc[0].Igv)
	assert.True(t, calc[1].MtoValorVenta.Sub(decimal.RequireFromString("4.2373")).Abs().LessThan(decimal.RequireFromString("0.001")))
	assert.True(t, calc[1].Igv.Sub(decimal.RequireFromString("0.7627")).Abs().LessThan(decimal.RequireFromString("0.001")))
	assert.True(t, calc[1].Icbper.Equal(decimal.RequireFromString("0.20")))

	assert.True(t, tot.MtoOperGravadas.Sub(decimal.RequireFromString("24.2373")).Abs().LessThan(decimal.RequireFromString("0.001")))
	assert.True(t, tot.Icbper.Equal(decimal.RequireFromString("0.20")))
	assert.True(t, tot.MtoIGV.Sub(decimal.RequireFromString("4.3627")).Abs().LessThan(decimal.RequireFromString("0.001")))
	assert.True(t, tot.SubTotal.Sub(decimal.RequireFromString("28.60")).Abs().LessThan(decimal.RequireFromString("0.0001")))
	assert.True(t, tot.TotalImpuestos.Equal(tot.MtoIGV.Add(tot.Icbper)))
	assert.True(t, tot.MtoImpVenta.Equal(tot.SubTotal.Add(tot.Redondeo)),
		"mtoImpVenta debe ser subTotal más el redondeo, fue %s", tot.MtoImpVenta)
}

// TestCalcular_AgrupacionPorAfectacion cada código del Catálogo 07 suma a su
// propio balde y los desconocidos caen como gratuitos.
func TestCalcular_AgrupacionPorAfectacion(t *testing.T) {
	mk := func(afe string) sunat.LineaInput {
		l := lineaGravada("1", "11.80")
		l.TipAfeIgv = afe
		return l
	}
	lineas := []sunat.LineaInput{
		mk(pkgsunat.AfectacionGravada),
		mk(pkgsunat.AfectacionExonerada),
		mk(pkgsunat.AfectacionInafecta),
		mk(pkgsunat.AfectacionExportacion),
		mk(pkgsunat.AfectacionGratuita),
		mk("99"), // código desconocido
	}

	_, tot, err := sunat.Calcular(lineas, configPrueba())
	require.NoError(t, err)

	neto := decimal.RequireFromString("10.00")
	tol := decimal.RequireFromString("0.0001")
	assert.True(t, tot.MtoOperGravadas.Sub(neto).Abs().LessThan(tol))
	assert.True(t, tot.MtoOperExoneradas.Sub(neto).Abs().LessThan(tol))
	assert.True(t, tot.MtoOperInafectas.Sub(neto).Abs().LessThan(tol))
	assert.True(t, tot.MtoOperExportacion.Sub(neto).Abs().LessThan(tol))
	assert.True(t, tot.MtoOperGratuitas.Sub(neto.Mul(decimal.NewFromInt(2))).Abs().LessThan(tol),
		"gratuita explícita y código desconocido deben sumar al balde gratuito")

	// Las cuatro líneas onerosas aportan IGV calculado al total (1.80 cada
	// una); las gratuitas lo acumulan aparte en mtoIGVGratuitas.
	assert.True(t, tot.MtoIGV.Sub(decimal.RequireFromString("7.20")).Abs().LessThan(tol))
	assert.True(t, tot.MtoIGVGratuitas.Sub(decimal.RequireFromString("3.60")).Abs().LessThan(tol))
}

// TestCalcular_TotalImpuestosEsIgvMasIcbper identidad exacta, sin tolerancia.
func TestCalcular_TotalImpuestosEsIgvMasIcbper(t *testing.T) {
	l := lineaGravada("3", "7.90")
	l.BolsaPlastica = true

	_, tot, err := sunat.Calcular([]sunat.LineaInput{l, lineaGravada("1", "11.80")}, configPrueba())
	require.NoError(t, err)
	assert.True(t, tot.TotalImpuestos.Equal(tot.MtoIGV.Add(tot.Icbper)))
}

// TestCalcular_RedondeoSiempreNoPositivo el truncado al décimo nunca sube el
// total: redondeo ∈ (−0.10, 0] y mtoImpVenta = subTotal + redondeo.
func TestCalcular_RedondeoSiempreNoPositivo(t *testing.T) {
	precios := []string{"9.99", "11.80", "7.77", "123.45", "0.01", "55.55"}
	for _, p := range precios {
		_, tot, err := sunat.Calcular([]sunat.LineaInput{lineaGravada("3", p)}, configPrueba())
		require.NoError(t, err)

		assert.True(t, tot.Redondeo.LessThanOrEqual(decimal.Zero), "precio %s: redondeo debe ser ≤ 0", p)
		assert.True(t, tot.Redondeo.GreaterThan(decimal.RequireFromString("-0.10")), "precio %s: |redondeo| < 0.10", p)
		assert.True(t, tot.MtoImpVenta.Equal(tot.SubTotal.Add(tot.Redondeo)), "precio %s", p)
	}
}

// TestCalcular_IcbperOrtogonalALaAfectacion la bolsa grava ICBPER incluso en
// líneas exoneradas.
func TestCalcular_IcbperOrtogonalALaAfectacion(t *testing.T) {
	l := lineaGravada("5", "2.00")
	l.TipAfeIgv = pkgsunat.AfectacionExonerada
	l.BolsaPlastica = true

	calc, tot, err := sunat.Calcular([]sunat.LineaInput{l}, configPrueba())
	require.NoError(t, err)
	assert.True(t, calc[0].Icbper.Equal(decimal.RequireFromString("1.00")), "5 bolsas × 0.20")
	assert.True(t, tot.Icbper.Equal(decimal.RequireFromString("1.00")))
}

// ── Errores de validación ─────────────────────────────────────────────────────

func TestCalcular_ErrorSinLineas(t *testing.T) {
	_, _, err := sunat.Calcular(nil, configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalcular_ErrorCantidadNoPositiva(t *testing.T) {
	l := lineaGravada("0", "11.80")
	_, _, err := sunat.Calcular([]sunat.LineaInput{l}, configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	l.Cantidad = decimal.NewFromInt(-1)
	_, _, err = sunat.Calcular([]sunat.LineaInput{l}, configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalcular_ErrorPrecioNoPositivo(t *testing.T) {
	l := lineaGravada("1", "0")
	_, _, err := sunat.Calcular([]sunat.LineaInput{l}, configPrueba())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
