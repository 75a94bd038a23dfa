package sunat

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

// Namespaces oficiales UBL 2.1.
const (
	// Namespace por defecto (UBL Invoice)
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	// Common Aggregate Components
	NsCac = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	// Common Basic Components
	NsCbc = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	// Extension Components
	NsExt = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	// XML Digital Signature
	NsDs = "http://www.w3.org/2000/09/xmldsig#"
)

// Nombres de agencia que SUNAT exige como atributos de los códigos de catálogo.
const (
	agencyPE   = "PE:SUNAT"
	agencyINEI = "PE:INEI"
)

// XMLBuilderService construye el XML UBL 2.1 de la factura (sin firma).
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera el []byte del documento Invoice según UBL 2.1 y las reglas de SUNAT.
func (s *XMLBuilderService) Build(doc *domsunat.Documento) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("sunat: documento nulo")
	}
	if len(doc.Details) == 0 {
		return nil, fmt.Errorf("sunat: documento sin líneas")
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "Invoice"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NsInvoice},
			{Name: xml.Name{Local: "xmlns:cac"}, Value: NsCac},
			{Name: xml.Name{Local: "xmlns:cbc"}, Value: NsCbc},
			{Name: xml.Name{Local: "xmlns:ds"}, Value: NsDs},
			{Name: xml.Name{Local: "xmlns:ext"}, Value: NsExt},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	// ext:UBLExtensions siempre como primer hijo de Invoice; el firmador
	// inyecta ds:Signature dentro del ExtensionContent vacío.
	s.writeUBLExtensions(enc)

	writeCbc(enc, "UBLVersionID", doc.UblVersion)
	writeCbc(enc, "CustomizationID", pkgsunat.CustomizationID)
	writeCbc(enc, "ID", doc.Serie+"-"+doc.Correlativo)
	writeCbc(enc, "IssueDate", doc.FechaEmision.Format("2006-01-02"))
	writeCbcAttrs(enc, "InvoiceTypeCode", doc.TipoDoc, []xml.Attr{
		{Name: xml.Name{Local: "listID"}, Value: doc.TipoOperacion},
		{Name: xml.Name{Local: "listAgencyName"}, Value: agencyPE},
		{Name: xml.Name{Local: "listName"}, Value: "Tipo de Documento"},
	})
	// Leyendas como cbc:Note; la 1000 (monto en letras) es obligatoria.
	for _, l := range doc.Legends {
		writeCbcAttrs(enc, "Note", l.Value, []xml.Attr{
			{Name: xml.Name{Local: "languageLocaleID"}, Value: l.Code},
		})
	}
	writeCbcAttrs(enc, "DocumentCurrencyCode", doc.TipoMoneda, []xml.Attr{
		{Name: xml.Name{Local: "listID"}, Value: "ISO 4217 Alpha"},
	})
	writeCbc(enc, "LineCountNumeric", strconv.Itoa(len(doc.Details)))

	s.writeSupplierParty(enc, &doc.Company)
	s.writeCustomerParty(enc, &doc.Client)
	s.writeTaxTotal(enc, doc)
	s.writeLegalMonetaryTotal(enc, doc)
	for i, line := range doc.Details {
		s.writeInvoiceLine(enc, i+1, line, doc.TipoMoneda)
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeUBLExtensions deja un ExtensionContent vacío reservado para la firma.
func (s *XMLBuilderService) writeUBLExtensions(enc *xml.Encoder) {
	startExt(enc, "UBLExtensions")
	startExt(enc, "UBLExtension")
	startExt(enc, "ExtensionContent")
	endExt(enc, "ExtensionContent")
	endExt(enc, "UBLExtension")
	endExt(enc, "UBLExtensions")
}

func (s *XMLBuilderService) writeSupplierParty(enc *xml.Encoder, e *domsunat.Empresa) {
	startCac(enc, "AccountingSupplierParty")
	startCac(enc, "Party")

	startCac(enc, "PartyIdentification")
	writeCbcAttrs(enc, "ID", e.Ruc, []xml.Attr{
		{Name: xml.Name{Local: "schemeID"}, Value: pkgsunat.IdentityDocRUC},
		{Name: xml.Name{Local: "schemeAgencyName"}, Value: agencyPE},
	})
	endCac(enc, "PartyIdentification")

	if e.NombreComercial != "" {
		startCac(enc, "PartyName")
		writeCbc(enc, "Name", e.NombreComercial)
		endCac(enc, "PartyName")
	}

	startCac(enc, "PartyLegalEntity")
	writeCbc(enc, "RegistrationName", e.RazonSocial)
	startCac(enc, "RegistrationAddress")
	writeCbcAttrs(enc, "ID", e.Direccion.Ubigeo, []xml.Attr{
		{Name: xml.Name{Local: "schemeAgencyName"}, Value: agencyINEI},
	})
	writeCbc(enc, "CityName", e.Direccion.Provincia)
	writeCbc(enc, "CountrySubentity", e.Direccion.Departamento)
	writeCbc(enc, "District", e.Direccion.Distrito)
	startCac(enc, "AddressLine")
	writeCbc(enc, "Line", e.Direccion.Direccion)
	endCac(enc, "AddressLine")
	startCac(enc, "Country")
	writeCbc(enc, "IdentificationCode", "PE")
	endCac(enc, "Country")
	endCac(enc, "RegistrationAddress")
	endCac(enc, "PartyLegalEntity")

	endCac(enc, "Party")
	endCac(enc, "AccountingSupplierParty")
}

func (s *XMLBuilderService) writeCustomerParty(enc *xml.Encoder, c *domsunat.Cliente) {
	startCac(enc, "AccountingCustomerParty")
	startCac(enc, "Party")

	startCac(enc, "PartyIdentification")
	writeCbcAttrs(enc, "ID", c.NumDoc, []xml.Attr{
		{Name: xml.Name{Local: "schemeID"}, Value: c.TipoDoc},
		{Name: xml.Name{Local: "schemeAgencyName"}, Value: agencyPE},
	})
	endCac(enc, "PartyIdentification")

	startCac(enc, "PartyLegalEntity")
	writeCbc(enc, "RegistrationName", c.RznSocial)
	if c.Direccion != "" {
		startCac(enc, "RegistrationAddress")
		startCac(enc, "AddressLine")
		writeCbc(enc, "Line", c.Direccion)
		endCac(enc, "AddressLine")
		endCac(enc, "RegistrationAddress")
	}
	endCac(enc, "PartyLegalEntity")

	endCac(enc, "Party")
	endCac(enc, "AccountingCustomerParty")
}

// writeTaxTotal escribe el TaxTotal del comprobante con un TaxSubtotal por
// grupo de afectación presente (solo montos mayores a cero).
func (s *XMLBuilderService) writeTaxTotal(enc *xml.Encoder, doc *domsunat.Documento) {
	t := doc.Totales
	cur := doc.TipoMoneda
	startCac(enc, "TaxTotal")
	writeCbcAmount(enc, "TaxAmount", t.TotalImpuestos, cur)
	s.writeTaxSubtotal(enc, cur, t.MtoOperGravadas, t.MtoIGV, pkgsunat.TributoIGV, "IGV", "VAT")
	s.writeTaxSubtotal(enc, cur, t.MtoOperExoneradas, decimal.Zero, pkgsunat.TributoEXO, "EXO", "VAT")
	s.writeTaxSubtotal(enc, cur, t.MtoOperInafectas, decimal.Zero, pkgsunat.TributoINA, "FRE", "FRE")
	s.writeTaxSubtotal(enc, cur, t.MtoOperExportacion, decimal.Zero, pkgsunat.TributoEXP, "EXP", "FRE")
	s.writeTaxSubtotal(enc, cur, t.MtoOperGratuitas, t.MtoIGVGratuitas, pkgsunat.TributoGRA, "GRA", "FRE")
	if t.Icbper.IsPositive() {
		s.writeIcbperSubtotal(enc, cur, t.Icbper)
	}
	endCac(enc, "TaxTotal")
}

func (s *XMLBuilderService) writeTaxSubtotal(enc *xml.Encoder, cur string, base, tax decimal.Decimal, tributoID, tributoName, typeCode string) {
	if base.IsZero() && tax.IsZero() {
		return
	}
	startCac(enc, "TaxSubtotal")
	writeCbcAmount(enc, "TaxableAmount", base, cur)
	writeCbcAmount(enc, "TaxAmount", tax, cur)
	startCac(enc, "TaxCategory")
	startCac(enc, "TaxScheme")
	writeCbcAttrs(enc, "ID", tributoID, []xml.Attr{
		{Name: xml.Name{Local: "schemeAgencyName"}, Value: agencyPE},
		{Name: xml.Name{Local: "schemeName"}, Value: "Codigo de tributos"},
	})
	writeCbc(enc, "Name", tributoName)
	writeCbc(enc, "TaxTypeCode", typeCode)
	endCac(enc, "TaxScheme")
	endCac(enc, "TaxCategory")
	endCac(enc, "TaxSubtotal")
}

// writeIcbperSubtotal el ICBPER no tiene base imponible monetaria, solo monto.
func (s *XMLBuilderService) writeIcbperSubtotal(enc *xml.Encoder, cur string, monto decimal.Decimal) {
	startCac(enc, "TaxSubtotal")
	writeCbcAmount(enc, "TaxAmount", monto, cur)
	startCac(enc, "TaxCategory")
	startCac(enc, "TaxScheme")
	writeCbcAttrs(enc, "ID", pkgsunat.TributoICBPER, []xml.Attr{
		{Name: xml.Name{Local: "schemeAgencyName"}, Value: agencyPE},
		{Name: xml.Name{Local: "schemeName"}, Value: "Codigo de tributos"},
	})
	writeCbc(enc, "Name", "ICBPER")
	writeCbc(enc, "TaxTypeCode", "OTH")
	endCac(enc, "TaxScheme")
	endCac(enc, "TaxCategory")
	endCac(enc, "TaxSubtotal")
}

func (s *XMLBuilderService) writeLegalMonetaryTotal(enc *xml.Encoder, doc *domsunat.Documento) {
	t := doc.Totales
	cur := doc.TipoMoneda
	startCac(enc, "LegalMonetaryTotal")
	writeCbcAmount(enc, "LineExtensionAmount", t.ValorVenta, cur)
	writeCbcAmount(enc, "TaxInclusiveAmount", t.SubTotal, cur)
	if !t.Redondeo.IsZero() {
		writeCbcAmount(enc, "PayableRoundingAmount", t.Redondeo, cur)
	}
	writeCbcAmount(enc, "PayableAmount", t.MtoImpVenta, cur)
	endCac(enc, "LegalMonetaryTotal")
}

func (s *XMLBuilderService) writeInvoiceLine(enc *xml.Encoder, num int, line domsunat.LineaCalculada, cur string) {
	startCac(enc, "InvoiceLine")
	writeCbc(enc, "ID", strconv.Itoa(num))
	writeCbcAttrs(enc, "InvoicedQuantity", formatDecimal(line.Cantidad), []xml.Attr{
		{Name: xml.Name{Local: "unitCode"}, Value: pkgsunat.UnitUnidad},
	})
	writeCbcAmount(enc, "LineExtensionAmount", line.MtoValorVenta, cur)

	// Precio de venta unitario con IGV (PriceTypeCode 01, Catálogo 16).
	startCac(enc, "PricingReference")
	startCac(enc, "AlternativeConditionPrice")
	writeCbcAmount(enc, "PriceAmount", line.PrecioUnitario, cur)
	writeCbc(enc, "PriceTypeCode", "01")
	endCac(enc, "AlternativeConditionPrice")
	endCac(enc, "PricingReference")

	// Impuestos de la línea: IGV según afectación, ICBPER si aplica.
	startCac(enc, "TaxTotal")
	writeCbcAmount(enc, "TaxAmount", line.TotalImpuestos, cur)
	s.writeLineIgvSubtotal(enc, cur, line)
	if line.Icbper.IsPositive() {
		s.writeIcbperSubtotal(enc, cur, line.Icbper)
	}
	endCac(enc, "TaxTotal")

	startCac(enc, "Item")
	writeCbc(enc, "Description", line.Descripcion)
	endCac(enc, "Item")

	startCac(enc, "Price")
	writeCbcAmount(enc, "PriceAmount", line.MtoValorUnitario, cur)
	endCac(enc, "Price")

	endCac(enc, "InvoiceLine")
}

func (s *XMLBuilderService) writeLineIgvSubtotal(enc *xml.Encoder, cur string, line domsunat.LineaCalculada) {
	tributoID, tributoName, typeCode := tributoForAfectacion(line.TipAfeIgv)
	startCac(enc, "TaxSubtotal")
	writeCbcAmount(enc, "TaxableAmount", line.MtoValorVenta, cur)
	writeCbcAmount(enc, "TaxAmount", line.Igv, cur)
	startCac(enc, "TaxCategory")
	writeCbcAttrs(enc, "TaxExemptionReasonCode", line.TipAfeIgv, []xml.Attr{
		{Name: xml.Name{Local: "listAgencyName"}, Value: agencyPE},
		{Name: xml.Name{Local: "listName"}, Value: "Afectacion del IGV"},
	})
	startCac(enc, "TaxScheme")
	writeCbcAttrs(enc, "ID", tributoID, []xml.Attr{
		{Name: xml.Name{Local: "schemeAgencyName"}, Value: agencyPE},
		{Name: xml.Name{Local: "schemeName"}, Value: "Codigo de tributos"},
	})
	writeCbc(enc, "Name", tributoName)
	writeCbc(enc, "TaxTypeCode", typeCode)
	endCac(enc, "TaxScheme")
	endCac(enc, "TaxCategory")
	endCac(enc, "TaxSubtotal")
}

// tributoForAfectacion mapea el código de afectación (Catálogo 07) al código
// de tributo del TaxScheme de la línea.
func tributoForAfectacion(tipAfeIgv string) (id, name, typeCode string) {
	switch tipAfeIgv {
	case pkgsunat.AfectacionGravada:
		return pkgsunat.TributoIGV, "IGV", "VAT"
	case pkgsunat.AfectacionExonerada:
		return pkgsunat.TributoEXO, "EXO", "VAT"
	case pkgsunat.AfectacionInafecta:
		return pkgsunat.TributoINA, "INA", "FRE"
	case pkgsunat.AfectacionExportacion:
		return pkgsunat.TributoEXP, "EXP", "FRE"
	default:
		return pkgsunat.TributoGRA, "GRA", "FRE"
	}
}

// ── Helpers de escritura ──────────────────────────────────────────────────────
//
// Los prefijos cac:/cbc:/ext: se escriben literales en el nombre local para
// que el documento serializado use los prefijos que SUNAT espera, en lugar de
// los autogenerados por encoding/xml.

func startCac(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "cac:" + local}})
}

func endCac(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "cac:" + local}})
}

func startExt(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "ext:" + local}})
}

func endExt(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "ext:" + local}})
}

func writeCbc(enc *xml.Encoder, local, value string) {
	name := xml.Name{Local: "cbc:" + local}
	_ = enc.EncodeToken(xml.StartElement{Name: name})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: name})
}

func writeCbcAttrs(enc *xml.Encoder, local, value string, attrs []xml.Attr) {
	name := xml.Name{Local: "cbc:" + local}
	_ = enc.EncodeToken(xml.StartElement{Name: name, Attr: attrs})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: name})
}

func writeCbcAmount(enc *xml.Encoder, local string, amount decimal.Decimal, currency string) {
	writeCbcAttrs(enc, local, amount.StringFixed(2), []xml.Attr{
		{Name: xml.Name{Local: "currencyID"}, Value: currency},
	})
}

func formatDecimal(d decimal.Decimal) string {
	return d.Round(4).String()
}
