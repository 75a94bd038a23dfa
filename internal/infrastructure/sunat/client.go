package sunat

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/domain/entity"
	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
)

var _ billing.Transmitter = (*Client)(nil)

// Client implementa billing.Transmitter: construye el XML UBL, lo firma con
// el certificado de la empresa, lo empaqueta y lo entrega al WS de SUNAT.
type Client struct {
	builder *XMLBuilderService
	signer  pkgsunat.Signer
	soap    *SOAPClient
}

// NewClient construye el cliente de facturación electrónica.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		builder: NewXMLBuilderService(),
		signer:  NewDigitalSignatureService(),
		soap:    NewSOAPClient(timeout),
	}
}

// Submit firma y envía el comprobante. El rechazo de SUNAT NO es error de
// retorno: viene como dato en RawResult. El error se reserva para fallas
// locales y de transporte; estas últimas tipadas como TransmitError.
func (c *Client) Submit(ctx context.Context, doc *domsunat.Documento, company *entity.Company) (*domsunat.RawResult, error) {
	signedXML, hash, err := c.SignedXML(doc, company)
	if err != nil {
		return nil, err
	}

	name := doc.Name()
	zipBytes, err := CompressXMLToZip(signedXML, name+".xml")
	if err != nil {
		return nil, err
	}

	endpoint := EndpointBeta
	if company.Production {
		endpoint = EndpointProd
	}
	// Usuario WS-Security: RUC concatenado con el usuario SOL secundario.
	username := company.RUC + company.SolUser

	res, err := c.soap.SendBill(ctx, endpoint, username, company.SolPass, name+".zip", zipBytes)
	if err != nil {
		return nil, &domsunat.TransmitError{Code: "http", Message: err.Error()}
	}

	if res.Fault != nil {
		// Fault con código numérico: SUNAT evaluó y rechazó el comprobante.
		// Cualquier otro Fault es un problema de transporte o credenciales.
		if num, ok := res.Fault.ErrorNumber(); ok {
			return &domsunat.RawResult{
				XML:     signedXML,
				Hash:    hash,
				Success: false,
				Error:   &domsunat.SunatErrorData{Code: num, Message: res.Fault.Message},
			}, nil
		}
		return nil, &domsunat.TransmitError{Code: res.Fault.Code, Message: res.Fault.Message}
	}

	cdrXML, err := UnzipCDR(res.CDRZip)
	if err != nil {
		return nil, err
	}
	cdr, err := ParseCDR(cdrXML)
	if err != nil {
		return nil, err
	}

	raw := &domsunat.RawResult{
		XML:     signedXML,
		Hash:    hash,
		Success: CDRAccepted(cdr.Code),
		CDR:     cdr,
		CDRZip:  res.CDRZip,
	}
	if !raw.Success {
		raw.Error = &domsunat.SunatErrorData{
			Code:    strconv.Itoa(cdr.Code),
			Message: cdr.Description,
		}
	}
	return raw, nil
}

// SignedXML construye y firma el comprobante sin enviarlo. Devuelve el XML
// firmado y el digest de la firma.
func (c *Client) SignedXML(doc *domsunat.Documento, company *entity.Company) ([]byte, string, error) {
	if company.CertPath == "" {
		return nil, "", fmt.Errorf("sunat: la empresa %s no tiene certificado de firma configurado", company.RUC)
	}
	xmlBytes, err := c.builder.Build(doc)
	if err != nil {
		return nil, "", err
	}
	cert, err := LoadCertificate(company.CertPath, company.CertPass)
	if err != nil {
		return nil, "", err
	}
	signedXML, err := c.signer.Sign(xmlBytes, cert)
	if err != nil {
		return nil, "", err
	}
	hash, err := HashFromSignedXML(signedXML)
	if err != nil {
		return nil, "", err
	}
	return signedXML, hash, nil
}
