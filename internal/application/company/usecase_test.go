package company_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturador-pe/internal/application/company"
	"github.com/tu-usuario/facturador-pe/internal/application/dto"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
)

// memCompanyRepo repositorio en memoria para los tests del caso de uso.
type memCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
}

var _ repository.CompanyRepository = (*memCompanyRepo)(nil)

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: make(map[string]*entity.Company)}
}

func (r *memCompanyRepo) Create(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	for _, existing := range r.companies {
		if existing.UserID == c.UserID && existing.RUC == c.RUC {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCompanyRepo) GetByRucAndUser(ruc, userID string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.RUC == ruc && c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) Update(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *memCompanyRepo) ListByUser(userID string) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.companies {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCompanyRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.companies, id)
	return nil
}

func crearRequest() dto.CreateCompanyRequest {
	return dto.CreateCompanyRequest{
		Ruc:          "20123456786",
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

func TestCompanyCreate_NoExponeCredenciales(t *testing.T) {
	uc := company.NewCompanyUseCase(newMemCompanyRepo())

	resp, err := uc.Create("user-1", crearRequest())
	require.NoError(t, err)
	assert.Equal(t, "20123456786", resp.Ruc)
	assert.NotEmpty(t, resp.ID)
	// La respuesta no tiene campos de credenciales; verificar que el resto llegó.
	assert.Equal(t, "COMERCIAL ANDINA S.A.C.", resp.RazonSocial)
	assert.False(t, resp.Production)
}

func TestCompanyCreate_RUCInvalido(t *testing.T) {
	uc := company.NewCompanyUseCase(newMemCompanyRepo())

	in := crearRequest()
	in.Ruc = "20123456780" // dígito verificador incorrecto
	_, err := uc.Create("user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanyGet_DeOtroUsuarioEsForbidden(t *testing.T) {
	uc := company.NewCompanyUseCase(newMemCompanyRepo())

	resp, err := uc.Create("user-1", crearRequest())
	require.NoError(t, err)

	_, err = uc.GetByID("user-2", resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID("user-1", resp.ID)
	assert.NoError(t, err)
}

func TestCompanyUpdate_CamposParciales(t *testing.T) {
	uc := company.NewCompanyUseCase(newMemCompanyRepo())

	resp, err := uc.Create("user-1", crearRequest())
	require.NoError(t, err)

	nuevoNombre := "ANDINA RETAIL S.A.C."
	produccion := true
	actualizado, err := uc.Update("user-1", resp.ID, dto.UpdateCompanyRequest{
		RazonSocial: &nuevoNombre,
		Production:  &produccion,
	})
	require.NoError(t, err)
	assert.Equal(t, "ANDINA RETAIL S.A.C.", actualizado.RazonSocial)
	assert.True(t, actualizado.Production)
	// Los campos no enviados se conservan.
	assert.Equal(t, "150101", actualizado.Ubigeo)
}

func TestCompanyDelete_YList(t *testing.T) {
	uc := company.NewCompanyUseCase(newMemCompanyRepo())

	resp, err := uc.Create("user-1", crearRequest())
	require.NoError(t, err)

	list, err := uc.List("user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete("user-1", resp.ID))

	list, err = uc.List("user-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.GetByID("user-1", resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
