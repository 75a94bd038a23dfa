// Package sunat: interfaz para firma digital de documentos XML (XML-DSig enveloped, SUNAT).

package sunat

import "crypto/tls"

// Signer firma un XML de comprobante y devuelve el XML con la firma inyectada
// en el ext:ExtensionContent reservado para ello.
type Signer interface {
	// Sign toma el XML del comprobante (sin firma) y el certificado con llave
	// privada, y retorna el XML con el nodo ds:Signature incluido.
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}
