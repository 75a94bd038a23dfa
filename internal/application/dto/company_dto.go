package dto

import "time"

// CreateCompanyRequest entrada para registrar una empresa emisora.
// Las credenciales SOL y el certificado son los que el contribuyente generó
// en el portal de SUNAT; nunca se devuelven en las respuestas.
type CreateCompanyRequest struct {
	Ruc             string `json:"ruc" validate:"required,len=11"`
	RazonSocial     string `json:"razon_social" validate:"required,min=1,max=200"`
	NombreComercial string `json:"nombre_comercial" validate:"omitempty,max=200"`
	Direccion       string `json:"direccion" validate:"required"`
	Ubigeo          string `json:"ubigeo" validate:"required,len=6"`
	Departamento    string `json:"departamento" validate:"required"`
	Provincia       string `json:"provincia" validate:"required"`
	Distrito        string `json:"distrito" validate:"required"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email" validate:"omitempty,email"`
	SolUser         string `json:"sol_user" validate:"required"`
	SolPass         string `json:"sol_pass" validate:"required"`
	CertPath        string `json:"cert_path"`
	CertPass        string `json:"cert_pass"`
	LogoPath        string `json:"logo_path"`
	Production      bool   `json:"production"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	RazonSocial     *string `json:"razon_social" validate:"omitempty,min=1,max=200"`
	NombreComercial *string `json:"nombre_comercial"`
	Direccion       *string `json:"direccion"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email" validate:"omitempty,email"`
	SolUser         *string `json:"sol_user"`
	SolPass         *string `json:"sol_pass"`
	CertPath        *string `json:"cert_path"`
	CertPass        *string `json:"cert_pass"`
	LogoPath        *string `json:"logo_path"`
	Production      *bool   `json:"production"`
}

// CompanyResponse salida de una empresa (sin credenciales SOL ni certificado).
type CompanyResponse struct {
	ID              string    `json:"id"`
	Ruc             string    `json:"ruc"`
	RazonSocial     string    `json:"razon_social"`
	NombreComercial string    `json:"nombre_comercial"`
	Direccion       string    `json:"direccion"`
	Ubigeo          string    `json:"ubigeo"`
	Departamento    string    `json:"departamento"`
	Provincia       string    `json:"provincia"`
	Distrito        string    `json:"distrito"`
	Telefono        string    `json:"telefono"`
	Email           string    `json:"email"`
	Production      bool      `json:"production"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
