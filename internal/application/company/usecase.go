// Package company casos de uso de administración de empresas emisoras.
package company

import (
	"fmt"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/application/dto"
	"github.com/tu-usuario/facturador-pe/internal/domain"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

// CompanyUseCase administra las empresas emisoras de un usuario. Toda
// operación verifica que la empresa pertenezca al usuario autenticado.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo}
}

// Create registra una empresa emisora para el usuario.
func (uc *CompanyUseCase) Create(userID string, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := pkgsunat.ValidateRUC(in.Ruc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.RazonSocial == "" || in.Direccion == "" {
		return nil, fmt.Errorf("%w: razón social y dirección son requeridas", domain.ErrInvalidInput)
	}
	if len(in.Ubigeo) != 6 {
		return nil, fmt.Errorf("%w: el ubigeo debe tener 6 dígitos", domain.ErrInvalidInput)
	}
	if in.SolUser == "" || in.SolPass == "" {
		return nil, fmt.Errorf("%w: las credenciales SOL son requeridas", domain.ErrInvalidInput)
	}

	now := time.Now()
	company := &entity.Company{
		UserID:          userID,
		RUC:             in.Ruc,
		RazonSocial:     in.RazonSocial,
		NombreComercial: in.NombreComercial,
		Direccion:       in.Direccion,
		Ubigeo:          in.Ubigeo,
		Departamento:    in.Departamento,
		Provincia:       in.Provincia,
		Distrito:        in.Distrito,
		Telefono:        in.Telefono,
		Email:           in.Email,
		SolUser:         in.SolUser,
		SolPass:         in.SolPass,
		CertPath:        in.CertPath,
		CertPass:        in.CertPass,
		LogoPath:        in.LogoPath,
		Production:      in.Production,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.companyRepo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID devuelve la empresa si pertenece al usuario.
func (uc *CompanyUseCase) GetByID(userID, id string) (*dto.CompanyResponse, error) {
	company, err := uc.delUsuario(userID, id)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// List devuelve las empresas del usuario.
func (uc *CompanyUseCase) List(userID string) ([]*dto.CompanyResponse, error) {
	companies, err := uc.companyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

// Update modifica los campos presentes en la petición.
func (uc *CompanyUseCase) Update(userID, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.delUsuario(userID, id)
	if err != nil {
		return nil, err
	}
	applyStr(&company.RazonSocial, in.RazonSocial)
	applyStr(&company.NombreComercial, in.NombreComercial)
	applyStr(&company.Direccion, in.Direccion)
	applyStr(&company.Telefono, in.Telefono)
	applyStr(&company.Email, in.Email)
	applyStr(&company.SolUser, in.SolUser)
	applyStr(&company.SolPass, in.SolPass)
	applyStr(&company.CertPath, in.CertPath)
	applyStr(&company.CertPass, in.CertPass)
	applyStr(&company.LogoPath, in.LogoPath)
	if in.Production != nil {
		company.Production = *in.Production
	}
	if company.RazonSocial == "" {
		return nil, fmt.Errorf("%w: la razón social no puede quedar vacía", domain.ErrInvalidInput)
	}
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Delete elimina la empresa del usuario.
func (uc *CompanyUseCase) Delete(userID, id string) error {
	company, err := uc.delUsuario(userID, id)
	if err != nil {
		return err
	}
	return uc.companyRepo.Delete(company.ID)
}

func (uc *CompanyUseCase) delUsuario(userID, id string) (*entity.Company, error) {
	company, err := uc.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if company.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return company, nil
}

func applyStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:              c.ID,
		Ruc:             c.RUC,
		RazonSocial:     c.RazonSocial,
		NombreComercial: c.NombreComercial,
		Direccion:       c.Direccion,
		Ubigeo:          c.Ubigeo,
		Departamento:    c.Departamento,
		Provincia:       c.Provincia,
		Distrito:        c.Distrito,
		Telefono:        c.Telefono,
		Email:           c.Email,
		Production:      c.Production,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
