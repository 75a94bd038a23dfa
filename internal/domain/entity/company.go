package entity

import "time"

// Company representa una empresa emisora de comprobantes (enfoque Perú).
// Guarda el snapshot fiscal (RUC, razón social, domicilio) y las credenciales
// SOL + certificado usados para firmar y enviar a SUNAT.
type Company struct {
	ID              string
	UserID          string // dueño de la empresa (un usuario puede tener varias)
	RUC             string // RUC peruano de 11 dígitos
	RazonSocial     string
	NombreComercial string
	Direccion       string
	Ubigeo          string // código de ubigeo INEI (ej: "150101" Lima)
	Departamento    string
	Provincia       string
	Distrito        string
	Telefono        string
	Email           string
	// Credenciales y material de firma para el envío a SUNAT.
	SolUser    string // usuario secundario SOL (sin el RUC)
	SolPass    string
	CertPath   string // ruta al certificado .p12/.pfx o .pem
	CertPass   string // contraseña del .p12 (vacía si PEM)
	LogoPath   string // logo para la representación impresa (opcional)
	Production bool   // true = endpoint de producción, false = beta
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
