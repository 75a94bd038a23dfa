// Package storage implementa el almacén local de artefactos de facturación
// (XML firmado, CDR, PDF) sobre el sistema de archivos.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tu-usuario/facturador-pe/internal/application/billing"
)

var _ billing.ArtifactStore = (*LocalStore)(nil)

// LocalStore guarda los artefactos bajo un directorio base. Las rutas que
// devuelve Put son relativas al directorio y se persisten con la factura.
type LocalStore struct {
	basePath string
}

// NewLocalStore construye el almacén creando el directorio base si no existe.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if basePath == "" {
		basePath = "./storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", basePath, err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Put escribe el artefacto y devuelve la ruta persistible. El nombre no debe
// contener separadores de ruta; los artefactos viven planos bajo el base path.
func (s *LocalStore) Put(name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: nombre de artefacto vacío")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("storage: nombre de artefacto inválido %q", name)
	}
	full := filepath.Join(s.basePath, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	return name, nil
}

// Get recupera un artefacto previamente guardado por su ruta.
func (s *LocalStore) Get(path string) ([]byte, error) {
	if path == "" || path != filepath.Base(path) {
		return nil, fmt.Errorf("storage: ruta de artefacto inválida %q", path)
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s: %w", path, err)
	}
	return data, nil
}
