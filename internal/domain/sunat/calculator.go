package sunat

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

// Config parámetros tributarios del cálculo. La tasa nunca va quemada en el
// código: cambia por norma (el IGV fue 19% hasta 2011) y el factor ICBPER
// sube cada año por cronograma.
type Config struct {
	TasaIGV      decimal.Decimal // ej: 0.18
	FactorICBPER decimal.Decimal // importe por unidad de bolsa, ej: 0.50
}

// DefaultConfig valores vigentes: IGV 18%, ICBPER según cronograma anual.
func DefaultConfig() Config {
	return Config{
		TasaIGV:      decimal.NewFromFloat(0.18),
		FactorICBPER: decimal.NewFromFloat(0.50),
	}
}

// LineaInput línea de venta tal como la ingresa el usuario: el precio
// unitario incluye IGV.
type LineaInput struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	TipAfeIgv      string // Catálogo 07; vacío o desconocido agrupa como gratuita
	BolsaPlastica  bool
}

// LineaCalculada línea con los valores derivados del cálculo.
type LineaCalculada struct {
	LineaInput
	MtoValorUnitario decimal.Decimal // precio unitario sin IGV
	MtoValorVenta    decimal.Decimal // valor neto de la línea
	Igv              decimal.Decimal
	Icbper           decimal.Decimal
	TotalImpuestos   decimal.Decimal
}

// Totales agregados por afectación más los totales del comprobante.
// Derivados: se recalculan siempre desde las líneas, nunca se mutan sueltos.
type Totales struct {
	MtoOperGravadas    decimal.Decimal
	MtoOperExoneradas  decimal.Decimal
	MtoOperInafectas   decimal.Decimal
	MtoOperExportacion decimal.Decimal
	MtoOperGratuitas   decimal.Decimal
	MtoIGV             decimal.Decimal
	MtoIGVGratuitas    decimal.Decimal
	Icbper             decimal.Decimal
	TotalImpuestos     decimal.Decimal
	ValorVenta         decimal.Decimal
	SubTotal           decimal.Decimal
	Redondeo           decimal.Decimal
	MtoImpVenta        decimal.Decimal
}

var diez = decimal.NewFromInt(10)

// Calcular computa los valores por línea y los totales agrupados por
// afectación. Rechaza con ErrInvalidInput facturas sin líneas o con
// cantidades/precios no positivos, antes de calcular nada.
//
// Reglas:
//   - mtoValorUnitario = precioUnitario / (1 + tasaIGV); el precio ingresado incluye IGV.
//   - igv de línea = mtoValorVenta × tasaIGV.
//   - icbper de línea = cantidad × factorICBPER si la línea está marcada; es
//     ortogonal a la afectación.
//   - valorVenta = mtoOperGravadas; subTotal = valorVenta + mtoIGV.
//   - mtoImpVenta = floor(subTotal × 10) / 10: el total se trunca hacia abajo
//     al décimo de sol (regla de presentación, no redondeo aritmético);
//     redondeo = mtoImpVenta − subTotal.
func Calcular(lineas []LineaInput, cfg Config) ([]LineaCalculada, *Totales, error) {
	if len(lineas) == 0 {
		return nil, nil, fmt.Errorf("%w: la factura debe tener al menos una línea", domain.ErrInvalidInput)
	}
	if !cfg.TasaIGV.IsPositive() {
		return nil, nil, fmt.Errorf("%w: tasa de IGV no positiva", domain.ErrInvalidInput)
	}

	divisor := decimal.NewFromInt(1).Add(cfg.TasaIGV)
	calculadas := make([]LineaCalculada, 0, len(lineas))
	t := &Totales{}

	for i, l := range lineas {
		if !l.Cantidad.IsPositive() {
			return nil, nil, fmt.Errorf("%w: línea %d: cantidad debe ser mayor que cero", domain.ErrInvalidInput, i+1)
		}
		if !l.PrecioUnitario.IsPositive() {
			return nil, nil, fmt.Errorf("%w: línea %d: precio unitario debe ser mayor que cero", domain.ErrInvalidInput, i+1)
		}

		valorUnitario := l.PrecioUnitario.Div(divisor)
		valorVenta := valorUnitario.Mul(l.Cantidad)
		igv := valorVenta.Mul(cfg.TasaIGV)
		icbper := decimal.Zero
		if l.BolsaPlastica {
			icbper = l.Cantidad.Mul(cfg.FactorICBPER)
		}

		calculadas = append(calculadas, LineaCalculada{
			LineaInput:       l,
			MtoValorUnitario: valorUnitario,
			MtoValorVenta:    valorVenta,
			Igv:              igv,
			Icbper:           icbper,
			TotalImpuestos:   igv.Add(icbper),
		})

		switch l.TipAfeIgv {
		case pkgsunat.AfectacionGravada:
			t.MtoOperGravadas = t.MtoOperGravadas.Add(valorVenta)
		case pkgsunat.AfectacionExonerada:
			t.MtoOperExoneradas = t.MtoOperExoneradas.Add(valorVenta)
		case pkgsunat.AfectacionInafecta:
			t.MtoOperInafectas = t.MtoOperInafectas.Add(valorVenta)
		case pkgsunat.AfectacionExportacion:
			t.MtoOperExportacion = t.MtoOperExportacion.Add(valorVenta)
		default:
			t.MtoOperGratuitas = t.MtoOperGratuitas.Add(valorVenta)
		}
		if pkgsunat.AfectacionOnerosa(l.TipAfeIgv) {
			t.MtoIGV = t.MtoIGV.Add(igv)
		} else {
			t.MtoIGVGratuitas = t.MtoIGVGratuitas.Add(igv)
		}
		t.Icbper = t.Icbper.Add(icbper)
	}

	t.TotalImpuestos = t.MtoIGV.Add(t.Icbper)
	t.ValorVenta = t.MtoOperGravadas
	t.SubTotal = t.ValorVenta.Add(t.MtoIGV)
	t.MtoImpVenta = t.SubTotal.Mul(diez).Floor().Div(diez)
	t.Redondeo = t.MtoImpVenta.Sub(t.SubTotal)
	return calculadas, t, nil
}
