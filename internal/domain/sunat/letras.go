// Package sunat implementa el motor de cálculo y armado de la factura
// electrónica peruana: conversión de importes a letras, cálculo de impuestos
// por afectación (Catálogo 07), armado del documento canónico e
// interpretación de la respuesta de SUNAT.
package sunat

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tablas para la conversión a letras. Los números 10–19 son irregulares;
// las decenas se combinan con la unidad mediante "Y" (21 → "VEINTE Y UNO").
var (
	letrasUnidades   = [10]string{"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE"}
	letrasDecenas    = [10]string{"", "DIEZ", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA"}
	letrasEspeciales = [10]string{"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISEIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE"}
	letrasCentenas   = [10]string{"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS"}
)

// Letras convierte un importe no negativo a su leyenda legal en letras:
//
//	SON: <PARTE ENTERA EN LETRAS> CON <NN>/100 SOLES
//
// Es la única implementación del sistema; la leyenda 1000 del comprobante y
// la representación impresa consumen esta función. Función pura, determinista.
func Letras(amount decimal.Decimal) string {
	entero := amount.Floor()
	centimos := amount.Sub(entero).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	n := entero.IntPart()

	var palabras string
	if n == 0 {
		palabras = "CERO"
	} else {
		var sb strings.Builder
		if n >= 1_000_000 {
			millones := n / 1_000_000
			if millones == 1 {
				sb.WriteString("UN MILLON ")
			} else {
				sb.WriteString(menorAUnMillon(millones))
				sb.WriteString(" MILLONES ")
			}
			n %= 1_000_000
		}
		sb.WriteString(menorAUnMillon(n))
		palabras = strings.TrimSpace(sb.String())
	}

	return fmt.Sprintf("SON: %s CON %02d/100 SOLES", palabras, centimos)
}

// menorAUnMillon convierte 0 ≤ n < 1 000 000 a letras. Caso especial:
// el grupo de miles igual a 1 se escribe "MIL", no "UNO MIL".
func menorAUnMillon(n int64) string {
	var sb strings.Builder
	if n >= 1000 {
		miles := n / 1000
		if miles == 1 {
			sb.WriteString("MIL ")
		} else {
			sb.WriteString(menorAMil(miles))
			sb.WriteString(" MIL ")
		}
		n %= 1000
	}
	sb.WriteString(menorAMil(n))
	return strings.TrimSpace(sb.String())
}

// menorAMil convierte 0 ≤ n < 1000 a letras. Caso especial: 100 → "CIEN".
func menorAMil(n int64) string {
	if n == 0 {
		return ""
	}
	if n == 100 {
		return "CIEN"
	}
	var sb strings.Builder
	if n >= 100 {
		sb.WriteString(letrasCentenas[n/100])
		sb.WriteString(" ")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 10:
		sb.WriteString(letrasUnidades[n])
	case n < 20:
		sb.WriteString(letrasEspeciales[n-10])
	default:
		sb.WriteString(letrasDecenas[n/10])
		if u := n % 10; u != 0 {
			sb.WriteString(" Y ")
			sb.WriteString(letrasUnidades[u])
		}
	}
	return strings.TrimSpace(sb.String())
}
