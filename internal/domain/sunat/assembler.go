package sunat

import (
	"fmt"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/domain"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

// Cabecera campos variables del comprobante que no salen de las líneas.
type Cabecera struct {
	Serie        string
	Correlativo  string
	FechaEmision time.Time
	TipoMoneda   string
}

// Ensamblar construye la factura canónica: valida emisor y cliente, estampa
// las constantes UBL, calcula los totales y genera la leyenda obligatoria
// con el importe en letras. No tiene efectos; la persistencia ocurre aparte.
func Ensamblar(emisor Empresa, cliente Cliente, lineas []LineaInput, cab Cabecera, cfg Config) (*Documento, error) {
	if err := pkgsunat.ValidateRUC(emisor.Ruc); err != nil {
		return nil, fmt.Errorf("%w: RUC del emisor: %v", domain.ErrInvalidInput, err)
	}
	if cab.Serie == "" || cab.Correlativo == "" {
		return nil, fmt.Errorf("%w: serie y correlativo son obligatorios", domain.ErrInvalidInput)
	}
	if cab.FechaEmision.IsZero() {
		return nil, fmt.Errorf("%w: fecha de emisión es obligatoria", domain.ErrInvalidInput)
	}
	if !pkgsunat.ValidIdentityDocCodes[cliente.TipoDoc] {
		return nil, fmt.Errorf("%w: tipo de documento del cliente no válido: %q", domain.ErrInvalidInput, cliente.TipoDoc)
	}
	if cliente.NumDoc == "" || cliente.RznSocial == "" {
		return nil, fmt.Errorf("%w: documento y razón social del cliente son obligatorios", domain.ErrInvalidInput)
	}
	if cliente.TipoDoc == pkgsunat.IdentityDocRUC {
		if err := pkgsunat.ValidateRUC(cliente.NumDoc); err != nil {
			return nil, fmt.Errorf("%w: RUC del cliente: %v", domain.ErrInvalidInput, err)
		}
	}
	moneda := cab.TipoMoneda
	if moneda == "" {
		moneda = pkgsunat.CurrencyPEN
	}

	detalles, totales, err := Calcular(lineas, cfg)
	if err != nil {
		return nil, err
	}

	return &Documento{
		UblVersion:    pkgsunat.UBLVersion,
		TipoOperacion: pkgsunat.OperacionVentaInterna,
		TipoDoc:       pkgsunat.DocTypeFactura,
		Serie:         cab.Serie,
		Correlativo:   cab.Correlativo,
		FechaEmision:  cab.FechaEmision,
		TipoMoneda:    moneda,
		Company:       emisor,
		Client:        cliente,
		Details:       detalles,
		Totales:       *totales,
		Legends: []Legend{
			{Code: pkgsunat.LegendMontoEnLetras, Value: Letras(totales.MtoImpVenta)},
		},
	}, nil
}
