// Servicio de firma digital XML-DSig (enveloped) para comprobantes SUNAT.
// Inyecta <ds:Signature> dentro del <ext:ExtensionContent> reservado del XML.

package sunat

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	pkgsunat "github.com/tu-usuario/facturador-pe/pkg/sunat"
	"github.com/ucarion/c14n"
)

// Algoritmos del bloque ds:Signature que SUNAT acepta.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"

	signatureID = "SignatureSP"
)

// DigitalSignatureService implementa la firma enveloped e inyecta el nodo en el XML.
type DigitalSignatureService struct{}

// NewDigitalSignatureService crea el servicio.
func NewDigitalSignatureService() *DigitalSignatureService {
	return &DigitalSignatureService{}
}

var _ pkgsunat.Signer = (*DigitalSignatureService)(nil)

// Sign implementa pkg/sunat.Signer. Firma el XML e inyecta ds:Signature en el
// ExtensionContent vacío que deja el builder.
func (s *DigitalSignatureService) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("sunat: XML vacío")
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("sunat: el certificado debe incluir llave privada RSA")
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("sunat: parsear certificado: %w", err)
	}

	// 1) Digest del documento completo (C14N). Reference URI="" con
	// transformada enveloped: la firma que se inyecta queda excluida.
	canonicalDoc, err := canonicalizeXML(xmlBytes)
	if err != nil {
		canonicalDoc = xmlBytes
	}
	docDigest := sha256.Sum256(canonicalDoc)
	docDigestB64 := base64.StdEncoding.EncodeToString(docDigest[:])

	// 2) SignedInfo canonicalizado y firmado con RSA-SHA256.
	signedInfoXML := s.buildSignedInfo(docDigestB64)
	canonicalSignedInfo, err := canonicalizeXML([]byte(signedInfoXML))
	if err != nil {
		canonicalSignedInfo = []byte(signedInfoXML)
	}
	signHash := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(nil, priv, crypto.SHA256, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("sunat: firmar SignedInfo: %w", err)
	}
	signatureValueB64 := base64.StdEncoding.EncodeToString(signatureValue)
	certB64 := base64.StdEncoding.EncodeToString(x509Cert.Raw)

	signatureXML := s.buildSignatureXML(signedInfoXML, signatureValueB64, certB64)

	return s.injectSignature(xmlBytes, signatureXML)
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func (s *DigitalSignatureService) buildSignedInfo(docDigestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + AlgRSASHA256 + `"/>`)
	sb.WriteString(`<ds:Reference URI="">`)
	sb.WriteString(`<ds:Transforms><ds:Transform Algorithm="` + TransformEnveloped + `"/></ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + docDigestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}

func (s *DigitalSignatureService) buildSignatureXML(signedInfoXML, signatureValueB64, certB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:Signature xmlns:ds="` + NamespaceDS + `" Id="` + signatureID + `">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<ds:SignatureValue>` + signatureValueB64 + `</ds:SignatureValue>`)
	sb.WriteString(`<ds:KeyInfo><ds:X509Data><ds:X509Certificate>` + certB64 + `</ds:X509Certificate></ds:X509Data></ds:KeyInfo>`)
	sb.WriteString(`</ds:Signature>`)
	return sb.String()
}

// injectSignature parsea el XML, busca el ExtensionContent vacío y añade el
// nodo ds:Signature como hijo.
func (s *DigitalSignatureService) injectSignature(xmlBytes []byte, signatureXML string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("sunat: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("sunat: documento sin raíz")
	}

	extContent := findExtensionContent(root)
	if extContent == nil {
		return nil, fmt.Errorf("sunat: no se encontró ext:ExtensionContent para la firma")
	}

	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("sunat: parsear nodo Signature: %w", err)
	}
	if sigRoot := sigDoc.Root(); sigRoot != nil {
		extContent.AddChild(sigRoot)
	}

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("sunat: serializar XML firmado: %w", err)
	}
	return out.Bytes(), nil
}

// findExtensionContent navega UBLExtensions/UBLExtension/ExtensionContent
// tolerando que el parser reporte los tags con o sin prefijo ext:.
func findExtensionContent(root *etree.Element) *etree.Element {
	for _, ext := range root.ChildElements() {
		if localTag(ext) != "UBLExtensions" {
			continue
		}
		for _, ublExt := range ext.ChildElements() {
			if localTag(ublExt) != "UBLExtension" {
				continue
			}
			for _, content := range ublExt.ChildElements() {
				if localTag(content) == "ExtensionContent" {
					return content
				}
			}
		}
	}
	return nil
}

func localTag(e *etree.Element) string {
	if idx := strings.Index(e.Tag, ":"); idx != -1 {
		return e.Tag[idx+1:]
	}
	return e.Tag
}

// HashFromSignedXML extrae el ds:DigestValue de la firma del XML. Es el hash
// que se muestra en la representación impresa y se persiste con la factura.
func HashFromSignedXML(signedXML []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(signedXML); err != nil {
		return "", fmt.Errorf("sunat: parsear XML firmado: %w", err)
	}
	for _, el := range doc.FindElements("//DigestValue") {
		if v := strings.TrimSpace(el.Text()); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("sunat: el XML no contiene ds:DigestValue")
}
