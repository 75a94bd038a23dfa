package billing_test

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	"github.com/tu-usuario/facturador-pe/pkg/logger"
)

// Dobles de prueba en memoria para los casos de uso de facturación.

type memFacturaRepo struct {
	mu       sync.Mutex
	facturas map[string]*entity.Factura
	detalles map[string][]*entity.FacturaDetalle
}

func newMemFacturaRepo() *memFacturaRepo {
	return &memFacturaRepo{
		facturas: make(map[string]*entity.Factura),
		detalles: make(map[string][]*entity.FacturaDetalle),
	}
}

func (r *memFacturaRepo) Create(f *entity.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.facturas[f.ID] = &cp
	return nil
}

func (r *memFacturaRepo) CreateDetalle(d *entity.FacturaDetalle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.detalles[d.FacturaID] = append(r.detalles[d.FacturaID], &cp)
	return nil
}

func (r *memFacturaRepo) GetByID(id string) (*entity.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.facturas[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memFacturaRepo) GetDetallesByFacturaID(facturaID string) ([]*entity.FacturaDetalle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.FacturaDetalle(nil), r.detalles[facturaID]...), nil
}

func (r *memFacturaRepo) Update(f *entity.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.facturas[f.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *f
	r.facturas[f.ID] = &cp
	return nil
}

func (r *memFacturaRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Factura
	for _, f := range r.facturas {
		if f.CompanyID == companyID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memFacturaRepo) ListVencibles(companyID string, asOf time.Time) ([]*entity.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Factura
	for _, f := range r.facturas {
		if f.CompanyID == companyID && f.Estado == entity.EstadoPendiente &&
			f.FechaVencimiento != nil && f.FechaVencimiento.Before(asOf) {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCompanyRepo struct {
	companies map[string]*entity.Company // por ID
}

func newMemCompanyRepo(cs ...*entity.Company) *memCompanyRepo {
	r := &memCompanyRepo{companies: make(map[string]*entity.Company)}
	for _, c := range cs {
		r.companies[c.ID] = c
	}
	return r
}

func (r *memCompanyRepo) Create(c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *memCompanyRepo) GetByRucAndUser(ruc, userID string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.RUC == ruc && c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) Update(c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *memCompanyRepo) ListByUser(userID string) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.companies {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCompanyRepo) Delete(id string) error {
	delete(r.companies, id)
	return nil
}

// noTxRunner ejecuta la función directamente contra el repo dado; la
// atomicidad real se prueba en la capa postgres.
type noTxRunner struct {
	repo repository.FacturaRepository
}

func (r noTxRunner) RunFactura(_ context.Context, fn func(repository.FacturaRepository) error) error {
	return fn(r.repo)
}

// stubTransmitter devuelve resultados y errores programados, en orden.
type stubTransmitter struct {
	results []*domsunat.RawResult
	errs    []error
	calls   int
}

func (s *stubTransmitter) Submit(context.Context, *domsunat.Documento, *entity.Company) (*domsunat.RawResult, error) {
	i := s.calls
	s.calls++
	var raw *domsunat.RawResult
	var err error
	if i < len(s.results) {
		raw = s.results[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return raw, err
}

func (s *stubTransmitter) SignedXML(doc *domsunat.Documento, _ *entity.Company) ([]byte, string, error) {
	return []byte("<Invoice/>"), "hash-firmado", nil
}

// memStore guarda artefactos en un mapa.
type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: make(map[string][]byte)} }

func (s *memStore) Put(name string, data []byte) (string, error) {
	s.files[name] = data
	return "mem://" + name, nil
}

func (s *memStore) Get(path string) ([]byte, error) {
	data, ok := s.files[path[len("mem://"):]]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// Verificación de que los dobles satisfacen los puertos.
var (
	_ repository.FacturaRepository = (*memFacturaRepo)(nil)
	_ repository.CompanyRepository = (*memCompanyRepo)(nil)
	_ billing.FacturaTxRunner      = noTxRunner{}
	_ billing.Transmitter          = (*stubTransmitter)(nil)
	_ billing.ArtifactStore        = (*memStore)(nil)
)
