package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
)

func facturaEnEstado(estado string) *entity.Factura {
	return &entity.Factura{
		ID:          "f-1",
		CompanyID:   "c-1",
		Serie:       "F001",
		Correlativo: "00000123",
		Estado:      estado,
	}
}

// ── MarcarPagada ──────────────────────────────────────────────────────────────

func TestMarcarPagada_DesdePendiente(t *testing.T) {
	f := facturaEnEstado(entity.EstadoPendiente)
	require.NoError(t, f.MarcarPagada())
	assert.Equal(t, entity.EstadoPagada, f.Estado)
}

func TestMarcarPagada_DesdeVencida(t *testing.T) {
	f := facturaEnEstado(entity.EstadoVencida)
	require.NoError(t, f.MarcarPagada())
	assert.Equal(t, entity.EstadoPagada, f.Estado)
}

func TestMarcarPagada_YaPagadaEsConflicto(t *testing.T) {
	f := facturaEnEstado(entity.EstadoPagada)
	err := f.MarcarPagada()
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.EstadoPagada, f.Estado, "el estado no debe cambiar")
}

func TestMarcarPagada_AnuladaEsTerminal(t *testing.T) {
	f := facturaEnEstado(entity.EstadoAnulada)
	err := f.MarcarPagada()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.EstadoAnulada, f.Estado)
}

// ── MarcarVencida ─────────────────────────────────────────────────────────────

func TestMarcarVencida_SoloDesdePendiente(t *testing.T) {
	f := facturaEnEstado(entity.EstadoPendiente)
	require.NoError(t, f.MarcarVencida())
	assert.Equal(t, entity.EstadoVencida, f.Estado)

	for _, estado := range []string{entity.EstadoPagada, entity.EstadoVencida, entity.EstadoAnulada} {
		f := facturaEnEstado(estado)
		assert.ErrorIs(t, f.MarcarVencida(), domain.ErrInvalidTransition, "desde %s", estado)
		assert.Equal(t, estado, f.Estado)
	}
}

// ── Anular ────────────────────────────────────────────────────────────────────

func TestAnular_DesdeCualquierEstadoNoTerminal(t *testing.T) {
	for _, estado := range []string{entity.EstadoPendiente, entity.EstadoPagada, entity.EstadoVencida} {
		f := facturaEnEstado(estado)
		require.NoError(t, f.Anular(), "desde %s", estado)
		assert.Equal(t, entity.EstadoAnulada, f.Estado)
	}
}

func TestAnular_DosVecesSeRechaza(t *testing.T) {
	f := facturaEnEstado(entity.EstadoPendiente)
	require.NoError(t, f.Anular())
	assert.ErrorIs(t, f.Anular(), domain.ErrInvalidTransition, "la anulación es definitiva")
}

// ── PuedeEnviarse ─────────────────────────────────────────────────────────────

func TestPuedeEnviarse_PendienteYVencida(t *testing.T) {
	assert.NoError(t, facturaEnEstado(entity.EstadoPendiente).PuedeEnviarse())
	assert.NoError(t, facturaEnEstado(entity.EstadoVencida).PuedeEnviarse())
}

func TestPuedeEnviarse_PagadaEsConflicto(t *testing.T) {
	assert.ErrorIs(t, facturaEnEstado(entity.EstadoPagada).PuedeEnviarse(), domain.ErrConflict)
}

func TestPuedeEnviarse_AnuladaEsTransicionInvalida(t *testing.T) {
	assert.ErrorIs(t, facturaEnEstado(entity.EstadoAnulada).PuedeEnviarse(), domain.ErrInvalidTransition)
}

// ── Name ──────────────────────────────────────────────────────────────────────

func TestName_FormatoSunat(t *testing.T) {
	f := facturaEnEstado(entity.EstadoPendiente)
	assert.Equal(t, "20123456786-01-F001-00000123", f.Name("20123456786"))
}
