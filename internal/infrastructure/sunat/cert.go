package sunat

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// LoadCertificate carga el certificado de firma de la empresa. Acepta un .p12
// o .pfx (con contraseña) o un PEM que contenga certificado y llave privada.
// Si certPath está vacío retorna cert vacío y err nil (modo sin firma).
func LoadCertificate(certPath, certPass string) (tls.Certificate, error) {
	if certPath == "" {
		return tls.Certificate{}, nil
	}
	ext := strings.ToLower(filepath.Ext(certPath))
	if ext == ".p12" || ext == ".pfx" {
		return loadPKCS12(certPath, certPass)
	}
	cert, err := tls.LoadX509KeyPair(certPath, certPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("cargar certificado PEM: %w", err)
	}
	return cert, nil
}

func loadPKCS12(certPath, certPass string) (tls.Certificate, error) {
	data, err := os.ReadFile(certPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("leer certificado %s: %w", certPath, err)
	}
	priv, x509Cert, err := pkcs12.Decode(data, certPass)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decodificar PKCS#12: %w", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{x509Cert.Raw},
		PrivateKey:  priv,
		Leaf:        x509Cert,
	}, nil
}
