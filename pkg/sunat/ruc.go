package sunat

import (
	"fmt"
	"unicode"
)

// pesos para el cálculo del dígito verificador del RUC (módulo 11, SUNAT).
// Se aplican a los 10 primeros dígitos, de izquierda a derecha.
var rucWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// ValidateRUC valida que el RUC tenga 11 dígitos, un prefijo de tipo de
// contribuyente conocido (10, 15, 17 o 20) y dígito verificador correcto.
// Acepta el número con o sin separadores ("20123456789" o "20-12345678-9").
func ValidateRUC(ruc string) error {
	digits := extractDigits(ruc)
	if len(digits) != 11 {
		return fmt.Errorf("sunat: RUC debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	prefix := string(digits[:2])
	switch prefix {
	case "10", "15", "17", "20":
	default:
		return fmt.Errorf("sunat: prefijo de RUC desconocido %q", prefix)
	}
	expected := computeRUCCheckDigit(digits[:10])
	if digits[10] != expected {
		return fmt.Errorf("sunat: dígito verificador del RUC inválido: esperado %c, recibido %c", expected, digits[10])
	}
	return nil
}

// ComputeRUCCheckDigit calcula el dígito verificador para los 10 primeros dígitos del RUC.
func ComputeRUCCheckDigit(ruc string) (byte, error) {
	digits := extractDigits(ruc)
	if len(digits) < 10 {
		return 0, fmt.Errorf("sunat: se requieren al menos 10 dígitos, se encontraron %d", len(digits))
	}
	return computeRUCCheckDigit(digits[:10]), nil
}

func computeRUCCheckDigit(base []byte) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * rucWeights[i]
	}
	r := 11 - sum%11
	switch r {
	case 10:
		return '0'
	case 11:
		return '1'
	default:
		return byte('0' + r)
	}
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
