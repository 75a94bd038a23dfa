// seed_ubigeo genera un script SQL para poblar la tabla paramétrica de
// ubigeos (código INEI de 6 dígitos: departamento, provincia, distrito)
// a partir del padrón oficial distribuido por INEI/RENIEC.
//
// El padrón viene como texto delimitado por pipe y codificado en ISO-8859-1:
//
//	code|departamento|provincia|distrito
//	150101|LIMA|LIMA|LIMA
//
// Uso: go run ./cmd/seed_ubigeo [ruta/ubigeos.txt]
// Por defecto busca ubigeos.txt en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/003_seed_ubigeo.sql
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type ubigeo struct {
	code         string
	departamento string
	provincia    string
	distrito     string
}

func main() {
	srcPath := "ubigeos.txt"
	if len(os.Args) > 1 {
		srcPath = os.Args[1]
	}
	f, err := os.Open(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir padrón: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// El padrón INEI se distribuye en ISO-8859-1 (tildes y Ñ).
	sc := bufio.NewScanner(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))

	seen := make(map[string]bool)
	var rows []ubigeo
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		code := strings.TrimSpace(parts[0])
		if len(code) != 6 || seen[code] {
			continue
		}
		// Las cabeceras de departamento (xx0000) y provincia (xxyy00)
		// no son distritos facturables; se omiten.
		if strings.HasSuffix(code, "00") {
			continue
		}
		seen[code] = true
		rows = append(rows, ubigeo{
			code:         code,
			departamento: strings.TrimSpace(parts[1]),
			provincia:    strings.TrimSpace(parts[2]),
			distrito:     strings.TrimSpace(parts[3]),
		})
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Leer padrón: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "El padrón no contiene distritos")
		os.Exit(1)
	}

	// Salida estable ordenada por código
	sort.Slice(rows, func(i, j int) bool { return rows[i].code < rows[j].code })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "003_seed_ubigeo.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Ubigeos INEI (departamento, provincia, distrito)\n")
	out.WriteString("-- Generado desde el padrón oficial por cmd/seed_ubigeo\n\n")
	out.WriteString("INSERT INTO ubigeos (code, departamento, provincia, distrito) VALUES\n")
	for i, r := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s', '%s')%s\n",
			r.code, escapeSQL(r.departamento), escapeSQL(r.provincia), escapeSQL(r.distrito), sep)
	}
	out.WriteString("ON CONFLICT (code) DO UPDATE SET\n")
	out.WriteString("  departamento = EXCLUDED.departamento,\n")
	out.WriteString("  provincia    = EXCLUDED.provincia,\n")
	out.WriteString("  distrito     = EXCLUDED.distrito;\n")

	fmt.Printf("Generado %s: %d distritos\n", outPath, len(rows))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
