package sunat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturador-pe/pkg/sunat"
)

func TestValidateRUC_Valido(t *testing.T) {
	assert.NoError(t, sunat.ValidateRUC("20123456786"))
	assert.NoError(t, sunat.ValidateRUC("20-12345678-6"), "acepta separadores")
}

func TestValidateRUC_DigitoVerificadorIncorrecto(t *testing.T) {
	err := sunat.ValidateRUC("20123456780")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dígito verificador")
}

func TestValidateRUC_LongitudIncorrecta(t *testing.T) {
	assert.Error(t, sunat.ValidateRUC("2012345678"), "10 dígitos")
	assert.Error(t, sunat.ValidateRUC("201234567861"), "12 dígitos")
	assert.Error(t, sunat.ValidateRUC(""), "vacío")
}

func TestValidateRUC_PrefijoDesconocido(t *testing.T) {
	// 30 no es un tipo de contribuyente válido.
	err := sunat.ValidateRUC("30123456789")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefijo")
}

func TestComputeRUCCheckDigit(t *testing.T) {
	d, err := sunat.ComputeRUCCheckDigit("2012345678")
	require.NoError(t, err)
	assert.Equal(t, byte('6'), d)
}
