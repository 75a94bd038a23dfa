package sunat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ── Constantes de entorno ─────────────────────────────────────────────────────

const (
	// EndpointBeta WS de pruebas (homologación) de SUNAT.
	EndpointBeta = "https://e-beta.sunat.gob.pe/ol-ti-itcpfegem-beta/billService"
	// EndpointProd WS de producción de SUNAT.
	EndpointProd = "https://e-factura.sunat.gob.pe/ol-ti-itcpfegem/billService"

	soapNS     = "http://schemas.xmlsoap.org/soap/envelope/"
	soapNSSer  = "http://service.sunat.gob.pe"
	soapNSWsse = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
)

// Fault error SOAP devuelto por el WS de SUNAT. Los rechazos de evaluación
// llegan como Fault con código numérico en faultcode (ej: "soap-env:Client.2335").
type Fault struct {
	Code    string
	Message string
}

// ErrorNumber extrae el código numérico del faultcode. Si no hay código
// numérico el Fault es un problema de protocolo o autenticación, no un
// rechazo del comprobante.
func (f *Fault) ErrorNumber() (string, bool) {
	m := faultNumber.FindStringSubmatch(f.Code)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var faultNumber = regexp.MustCompile(`(?:^|\.)(\d{3,4})$`)

// BillResult resultado de la operación sendBill. O llega el ZIP del CDR o un Fault.
type BillResult struct {
	CDRZip []byte
	Fault  *Fault
}

// SOAPClient cliente del WS billService de SUNAT. Autentica con WS-Security
// UsernameToken usando las credenciales SOL de la empresa.
// Usa net/http de la stdlib; no requiere librerías de terceros.
type SOAPClient struct {
	httpClient *http.Client
}

// NewSOAPClient construye el cliente SOAP. El timeout debe ser generoso ya
// que el WS de SUNAT puede tardar varios segundos en responder.
func NewSOAPClient(timeout time.Duration) *SOAPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SOAPClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras SOAP ──────────────────────────────────────────────────────────

type soapEnvelope struct {
	XMLName   xml.Name   `xml:"soapenv:Envelope"`
	XmlnsSoap string     `xml:"xmlns:soapenv,attr"`
	XmlnsSer  string     `xml:"xmlns:ser,attr"`
	XmlnsWsse string     `xml:"xmlns:wsse,attr"`
	Header    soapHeader `xml:"soapenv:Header"`
	Body      soapBody   `xml:"soapenv:Body"`
}

type soapHeader struct {
	Security wsseSecurity `xml:"wsse:Security"`
}

type wsseSecurity struct {
	UsernameToken wsseUsernameToken `xml:"wsse:UsernameToken"`
}

type wsseUsernameToken struct {
	Username string `xml:"wsse:Username"`
	Password string `xml:"wsse:Password"`
}

type soapBody struct {
	SendBill sendBillBody `xml:"ser:sendBill"`
}

// sendBillBody cuerpo de la operación sendBill (envío síncrono de facturas).
type sendBillBody struct {
	FileName    string `xml:"fileName"`
	ContentFile string `xml:"contentFile"` // ZIP en Base64
}

// ── Estructuras de respuesta SOAP ─────────────────────────────────────────────

type soapResponseEnvelope struct {
	Body soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	SendBillResponse *sendBillResponse `xml:"sendBillResponse"`
	Fault            *soapFault        `xml:"Fault"`
}

type sendBillResponse struct {
	ApplicationResponse string `xml:"applicationResponse"` // ZIP del CDR en Base64
}

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

// ── SendBill ──────────────────────────────────────────────────────────────────

// SendBill envía el ZIP del comprobante al WS de SUNAT. username debe ser la
// concatenación RUC + usuario SOL secundario. Un Fault de SUNAT no es error de
// esta función: viene como dato dentro de BillResult; el error de retorno se
// reserva para fallas de red y respuestas inválidas.
func (c *SOAPClient) SendBill(ctx context.Context, endpoint, username, password, fileName string, zipBytes []byte) (*BillResult, error) {
	envelope := soapEnvelope{
		XmlnsSoap: soapNS,
		XmlnsSer:  soapNSSer,
		XmlnsWsse: soapNSWsse,
		Header: soapHeader{
			Security: wsseSecurity{
				UsernameToken: wsseUsernameToken{Username: username, Password: password},
			},
		},
		Body: soapBody{
			SendBill: sendBillBody{
				FileName:    fileName,
				ContentFile: base64.StdEncoding.EncodeToString(zipBytes),
			},
		},
	}

	xmlPayload, err := xml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("soap: serializar envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		bytes.NewReader(xmlPayload))
	if err != nil {
		return nil, fmt.Errorf("soap: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "urn:sendBill")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("soap: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("soap: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20)) // max 4 MB
	if err != nil {
		return nil, fmt.Errorf("soap: leer respuesta: %w", err)
	}

	return parseBillResponse(rawBody)
}

// parseBillResponse desempaqueta la respuesta SOAP: CDR en Base64 o Fault.
func parseBillResponse(rawBody []byte) (*BillResult, error) {
	var envResp soapResponseEnvelope
	if err := xml.Unmarshal(rawBody, &envResp); err != nil {
		return nil, fmt.Errorf("soap: respuesta no parseable: %s", truncate(rawBody, 512))
	}
	if envResp.Body.Fault != nil {
		return &BillResult{Fault: &Fault{
			Code:    strings.TrimSpace(envResp.Body.Fault.FaultCode),
			Message: strings.TrimSpace(envResp.Body.Fault.FaultString),
		}}, nil
	}
	if envResp.Body.SendBillResponse == nil {
		return nil, fmt.Errorf("soap: respuesta vacía o inesperada: %s", truncate(rawBody, 512))
	}
	cdrZip, err := base64.StdEncoding.DecodeString(
		strings.TrimSpace(envResp.Body.SendBillResponse.ApplicationResponse))
	if err != nil {
		return nil, fmt.Errorf("soap: decodificar applicationResponse: %w", err)
	}
	return &BillResult{CDRZip: cdrZip}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
