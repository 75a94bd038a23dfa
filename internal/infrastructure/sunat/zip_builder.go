package sunat

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// CompressXMLToZip empaqueta el XML firmado en un ZIP en memoria. SUNAT exige
// que el ZIP contenga un único archivo con el nombre:
//
//	{RUC}-{TIPO_DOC}-{SERIE}-{CORRELATIVO}.xml
//
// Devuelve los bytes del ZIP listo para enviar al WS de SUNAT.
func CompressXMLToZip(xmlBytes []byte, xmlFilename string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	fw, err := zw.Create(xmlFilename)
	if err != nil {
		return nil, fmt.Errorf("zip: crear entrada %s: %w", xmlFilename, err)
	}
	if _, err := fw.Write(xmlBytes); err != nil {
		return nil, fmt.Errorf("zip: escribir XML: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// UnzipCDR extrae el XML de la constancia de recepción del ZIP que devuelve
// SUNAT. El archivo viene con el prefijo R- (ej: R-20123456786-01-F001-1.xml);
// se toma la primera entrada .xml encontrada.
func UnzipCDR(zipBytes []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("zip: leer CDR: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip: abrir %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zip: leer %s: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("zip: el CDR no contiene ningún XML")
}
