package sunat

import (
	"time"

	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

// Empresa datos del emisor que se estampan en el comprobante.
type Empresa struct {
	Ruc             string
	RazonSocial     string
	NombreComercial string
	Direccion       Direccion
}

// Direccion domicilio fiscal según el anexo de ubigeos.
type Direccion struct {
	Ubigeo       string
	Departamento string
	Provincia    string
	Distrito     string
	Direccion    string
}

// Cliente receptor del comprobante. TipoDoc según Catálogo 06.
type Cliente struct {
	TipoDoc   string
	NumDoc    string
	RznSocial string
	Direccion string
}

// Legend leyenda del comprobante (Catálogo 52). La de código 1000 lleva el
// importe total en letras y es obligatoria.
type Legend struct {
	Code  string
	Value string
}

// Documento factura canónica lista para serializar a UBL. Se construye una
// sola vez vía Ensamblar y no se muta después.
type Documento struct {
	UblVersion    string
	TipoOperacion string
	TipoDoc       string
	Serie         string
	Correlativo   string
	FechaEmision  time.Time
	TipoMoneda    string
	Company       Empresa
	Client        Cliente
	Details       []LineaCalculada
	Totales       Totales
	Legends       []Legend
}

// Name nombre normalizado del comprobante: RUC-01-SERIE-CORRELATIVO. Es la
// base del nombre de archivo XML/ZIP que exige SUNAT.
func (d *Documento) Name() string {
	return d.Company.Ruc + "-" + pkgsunat.DocTypeFactura + "-" + d.Serie + "-" + d.Correlativo
}
