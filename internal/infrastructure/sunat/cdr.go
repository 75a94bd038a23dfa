package sunat

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	domsunat "github.com/tu-usuario/facturador-pe/internal/domain/sunat"
)

// applicationResponse estructura mínima del CDR (ApplicationResponse UBL)
// que devuelve SUNAT dentro del ZIP de respuesta.
type applicationResponse struct {
	XMLName          xml.Name `xml:"ApplicationResponse"`
	Notes            []string `xml:"Note"`
	DocumentResponse struct {
		Response struct {
			ResponseCode string `xml:"ResponseCode"`
			Description  string `xml:"Description"`
		} `xml:"Response"`
	} `xml:"DocumentResponse"`
}

// ParseCDR interpreta el XML del CDR y lo proyecta al modelo de dominio.
// Código 0 = aceptado; 2000-3999 = rechazado; 4000+ = aceptado con
// observaciones (las observaciones vienen en Notes).
func ParseCDR(cdrXML []byte) (*domsunat.CDRResponse, error) {
	var ar applicationResponse
	if err := xml.Unmarshal(cdrXML, &ar); err != nil {
		return nil, fmt.Errorf("sunat: parsear CDR: %w", err)
	}
	codeStr := strings.TrimSpace(ar.DocumentResponse.Response.ResponseCode)
	if codeStr == "" {
		return nil, fmt.Errorf("sunat: CDR sin ResponseCode")
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return nil, fmt.Errorf("sunat: ResponseCode no numérico %q", codeStr)
	}
	var notes []string
	for _, n := range ar.Notes {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, n)
		}
	}
	return &domsunat.CDRResponse{
		Code:        code,
		Description: strings.TrimSpace(ar.DocumentResponse.Response.Description),
		Notes:       notes,
	}, nil
}

// CDRAccepted indica si el código del CDR significa aceptación. Los códigos
// 4000 en adelante son observaciones: el comprobante queda aceptado.
func CDRAccepted(code int) bool {
	return code == 0 || code >= 4000
}
