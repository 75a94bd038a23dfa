package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `
	id, user_id, ruc, razon_social, nombre_comercial, direccion, ubigeo,
	departamento, provincia, distrito, telefono, email,
	sol_user, sol_pass, cert_path, cert_pass, logo_path, production,
	created_at, updated_at`

// Create persiste una empresa emisora.
func (r *CompanyRepo) Create(company *entity.Company) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	query := `
		INSERT INTO companies (id, user_id, ruc, razon_social, nombre_comercial, direccion, ubigeo,
			departamento, provincia, distrito, telefono, email,
			sol_user, sol_pass, cert_path, cert_pass, logo_path, production, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.UserID, company.RUC, company.RazonSocial, nullIfEmpty(company.NombreComercial),
		company.Direccion, company.Ubigeo, company.Departamento, company.Provincia, company.Distrito,
		nullIfEmpty(company.Telefono), nullIfEmpty(company.Email),
		company.SolUser, company.SolPass, nullIfEmpty(company.CertPath), nullIfEmpty(company.CertPass),
		nullIfEmpty(company.LogoPath), company.Production,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// unique (user_id, ruc)
			return fmt.Errorf("%w: el RUC ya está registrado para este usuario", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.getOne(query, id)
}

// GetByRucAndUser busca el emisor por RUC verificando que pertenezca al usuario.
func (r *CompanyRepo) GetByRucAndUser(ruc, userID string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ruc = $1 AND user_id = $2`
	return r.getOne(query, ruc, userID)
}

// Update actualiza los datos de la empresa.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies
		SET razon_social     = $2,
		    nombre_comercial = $3,
		    direccion        = $4,
		    telefono         = $5,
		    email            = $6,
		    sol_user         = $7,
		    sol_pass         = $8,
		    cert_path        = $9,
		    cert_pass        = $10,
		    logo_path        = $11,
		    production       = $12,
		    updated_at       = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.RazonSocial, nullIfEmpty(company.NombreComercial), company.Direccion,
		nullIfEmpty(company.Telefono), nullIfEmpty(company.Email),
		company.SolUser, company.SolPass, nullIfEmpty(company.CertPath), nullIfEmpty(company.CertPass),
		nullIfEmpty(company.LogoPath), company.Production, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// ListByUser lista las empresas del usuario.
func (r *CompanyRepo) ListByUser(userID string) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1 ORDER BY razon_social`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina la empresa (las facturas emitidas se conservan por FK RESTRICT).
func (r *CompanyRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) getOne(query string, args ...any) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	var nombreComercial, telefono, email, certPath, certPass, logoPath *string
	err := row.Scan(
		&c.ID, &c.UserID, &c.RUC, &c.RazonSocial, &nombreComercial, &c.Direccion, &c.Ubigeo,
		&c.Departamento, &c.Provincia, &c.Distrito, &telefono, &email,
		&c.SolUser, &c.SolPass, &certPath, &certPass, &logoPath, &c.Production,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.NombreComercial = derefStr(nombreComercial)
	c.Telefono = derefStr(telefono)
	c.Email = derefStr(email)
	c.CertPath = derefStr(certPath)
	c.CertPass = derefStr(certPass)
	c.LogoPath = derefStr(logoPath)
	return &c, nil
}
