package sunat_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/facturador-pe/internal/domain/sunat"
)

// TestLetras_CasosConocidos valida la leyenda 1000 contra importes de
// referencia. La redacción (CIEN y no CIENTO, VEINTE Y UNO, CON NN/100)
// sigue el estilo notarial peruano que SUNAT muestra en sus ejemplos.
func TestLetras_CasosConocidos(t *testing.T) {
	casos := []struct {
		monto    string
		esperado string
	}{
		{"100.00", "SON: CIEN CON 00/100 SOLES"},
		{"21.50", "SON: VEINTE Y UNO CON 50/100 SOLES"},
		{"0.00", "SON: CERO CON 00/100 SOLES"},
		{"1.00", "SON: UNO CON 00/100 SOLES"},
		{"15.07", "SON: QUINCE CON 07/100 SOLES"},
		{"101.99", "SON: CIENTO UNO CON 99/100 SOLES"},
		{"1000.00", "SON: MIL CON 00/100 SOLES"},
		{"2345.60", "SON: DOS MIL TRESCIENTOS CUARENTA Y CINCO CON 60/100 SOLES"},
		{"30.10", "SON: TREINTA CON 10/100 SOLES"},
		{"999999.99", "SON: NOVECIENTOS NOVENTA Y NUEVE MIL NOVECIENTOS NOVENTA Y NUEVE CON 99/100 SOLES"},
	}
	for _, c := range casos {
		got := sunat.Letras(decimal.RequireFromString(c.monto))
		assert.Equal(t, c.esperado, got, "importe %s", c.monto)
	}
}

// TestLetras_Millones cubre el grupo de millones, incluido el límite exacto
// en que el grupo de miles se agota (1 000 000.00).
func TestLetras_Millones(t *testing.T) {
	casos := []struct {
		monto    string
		esperado string
	}{
		{"1000000.00", "SON: UN MILLON CON 00/100 SOLES"},
		{"1000001.00", "SON: UN MILLON UNO CON 00/100 SOLES"},
		{"2500000.50", "SON: DOS MILLONES QUINIENTOS MIL CON 50/100 SOLES"},
		{"21000000.00", "SON: VEINTE Y UNO MILLONES CON 00/100 SOLES"},
		{"1000000000.00", "SON: MIL MILLONES CON 00/100 SOLES"},
	}
	for _, c := range casos {
		got := sunat.Letras(decimal.RequireFromString(c.monto))
		assert.Equal(t, c.esperado, got, "importe %s", c.monto)
	}
}

// TestLetras_FraccionRedondeada verifica que la parte decimal se redondee a
// dos dígitos y se rellene con cero a la izquierda.
func TestLetras_FraccionRedondeada(t *testing.T) {
	got := sunat.Letras(decimal.RequireFromString("12.055"))
	assert.Equal(t, "SON: DOCE CON 06/100 SOLES", got)

	got = sunat.Letras(decimal.RequireFromString("12.004"))
	assert.Equal(t, "SON: DOCE CON 00/100 SOLES", got)
}

// TestLetras_Determinista la función es pura: mismo importe, misma leyenda.
func TestLetras_Determinista(t *testing.T) {
	m := decimal.RequireFromString("847.35")
	assert.Equal(t, sunat.Letras(m), sunat.Letras(m))
}
