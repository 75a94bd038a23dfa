package repository

import "github.com/tu-usuario/facturador-pe/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company (emisores).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	// GetByRucAndUser busca el emisor por RUC verificando que pertenezca al
	// usuario; es la consulta que protege el envío a SUNAT.
	GetByRucAndUser(ruc, userID string) (*entity.Company, error)
	Update(company *entity.Company) error
	ListByUser(userID string) ([]*entity.Company, error)
	Delete(id string) error
}
