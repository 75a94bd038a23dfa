// Package sunat contiene catálogos y puertos alineados a las tablas del
// Anexo 8 de la Resolución de Superintendencia SUNAT (facturación electrónica UBL 2.1, Perú).
package sunat

// UBLVersion versión del estándar UBL que exige SUNAT para facturas.
const UBLVersion = "2.1"

// CustomizationID versión de la estructura del documento según SUNAT.
const CustomizationID = "2.0"

// =============================================================================
// Catálogo 01 - Tipo de Documento (comprobantes de pago electrónicos)
// =============================================================================

const (
	DocTypeFactura     = "01" // Factura
	DocTypeBoleta      = "03" // Boleta de venta
	DocTypeNotaCredito = "07" // Nota de crédito
	DocTypeNotaDebito  = "08" // Nota de débito
)

// =============================================================================
// Catálogo 02 - Tipo de Moneda (ISO 4217)
// =============================================================================

const (
	CurrencyPEN = "PEN" // Sol
	CurrencyUSD = "USD" // Dólar americano
)

// =============================================================================
// Catálogo 03 - Unidades de Medida (UN/ECE rec 20)
// =============================================================================

const (
	UnitUnidad    = "NIU" // Unidad (bienes)
	UnitServicio  = "ZZ"  // Unidad (servicios)
	UnitKilogramo = "KGM" // Kilogramo
	UnitLitro     = "LTR" // Litro
	UnitMetro     = "MTR" // Metro
)

// ValidUnitCodes unidades de medida de uso común en líneas de factura.
var ValidUnitCodes = map[string]bool{
	UnitUnidad: true, UnitServicio: true, UnitKilogramo: true,
	UnitLitro: true, UnitMetro: true,
}

// =============================================================================
// Catálogo 06 - Tipo de Documento de Identidad del adquiriente
// =============================================================================

const (
	IdentityDocDNI          = "1" // DNI
	IdentityDocCarnetExt    = "4" // Carnet de extranjería
	IdentityDocRUC          = "6" // RUC
	IdentityDocPasaporte    = "7" // Pasaporte
	IdentityDocSinDocumento = "0" // No domiciliado / sin documento
)

// ValidIdentityDocCodes códigos de documento de identidad aceptados para el cliente.
var ValidIdentityDocCodes = map[string]bool{
	IdentityDocDNI: true, IdentityDocCarnetExt: true, IdentityDocRUC: true,
	IdentityDocPasaporte: true, IdentityDocSinDocumento: true,
}

// =============================================================================
// Catálogo 07 - Tipo de Afectación del IGV por línea
// El código determina a qué balde de operaciones suma el valor de venta de la línea.
// =============================================================================

const (
	AfectacionGravada     = "10" // Gravado - operación onerosa
	AfectacionExonerada   = "20" // Exonerado - operación onerosa
	AfectacionInafecta    = "30" // Inafecto - operación onerosa
	AfectacionExportacion = "40" // Exportación de bienes o servicios
	AfectacionGratuita    = "11" // Gravado - retiro por premio (representativo del grupo gratuito)
)

// AfectacionOnerosa indica si el código pertenece a los cuatro grupos onerosos
// (10, 20, 30, 40). Cualquier otro código se acumula como operación gratuita.
func AfectacionOnerosa(code string) bool {
	switch code {
	case AfectacionGravada, AfectacionExonerada, AfectacionInafecta, AfectacionExportacion:
		return true
	}
	return false
}

// =============================================================================
// Catálogo 51 - Tipo de Operación
// =============================================================================

const (
	OperacionVentaInterna = "0101" // Venta interna
	OperacionExportacion  = "0200" // Exportación de bienes
)

// =============================================================================
// Catálogo 52 - Códigos de Leyendas
// =============================================================================

const (
	// LegendMontoEnLetras es la leyenda obligatoria con el importe en letras.
	LegendMontoEnLetras = "1000"
	// LegendTransferenciaGratuita aplica cuando toda la operación es gratuita.
	LegendTransferenciaGratuita = "1002"
)

// =============================================================================
// Códigos de tributo (usados en cac:TaxScheme del XML UBL)
// =============================================================================

const (
	TributoIGV    = "1000" // IGV - Impuesto General a las Ventas
	TributoICBPER = "7152" // Impuesto a las bolsas de plástico
	TributoEXP    = "9995" // Exportación
	TributoEXO    = "9997" // Exonerado
	TributoINA    = "9998" // Inafecto
	TributoGRA    = "9996" // Gratuito
)
