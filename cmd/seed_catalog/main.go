// seed_catalog genera un script SQL para cargar el catálogo de productos de una sucursal
// desde un CSV exportado de la hoja de cálculo del negocio.
//
// Uso: go run ./cmd/seed_catalog <branch_id> [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Columnas: name, category, product_unit, sale_unit, base_price, low_stock_threshold.
// Acepta UTF-8 o ISO-8859-1 (exportación de Excel) y separador ',' o ';'.
// Escribe: seed_catalog_<branch_id>.sql en la raíz del módulo.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	Name              string
	Category          string
	ProductUnit       string
	SaleUnit          string
	BasePrice         decimal.Decimal
	LowStockThreshold int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog <branch_id> [catalogo.csv]")
		os.Exit(2)
	}
	branchID := strings.TrimSpace(os.Args[1])
	csvPath := "catalogo.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	rows, err := parseCatalog(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "seed_catalog_"+branchID+".sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, branchID, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// parseCatalog decodifica el CSV (UTF-8 o Latin-1) y valida cada fila.
func parseCatalog(data []byte) ([]catalogRow, error) {
	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	if firstLine, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("archivo vacío")
	}
	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		header[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := header["name"]; !ok {
		return nil, fmt.Errorf("falta la columna name")
	}
	col := func(rec []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rows := make([]catalogRow, 0, len(records)-1)
	seen := make(map[string]int)
	for n, rec := range records[1:] {
		line := n + 2
		row := catalogRow{
			Name:        col(rec, "name"),
			Category:    col(rec, "category"),
			ProductUnit: col(rec, "product_unit"),
			SaleUnit:    col(rec, "sale_unit"),
		}
		if row.Name == "" {
			continue
		}
		key := strings.ToLower(row.Name)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("línea %d: producto repetido (ya en línea %d): %s", line, prev, row.Name)
		}
		seen[key] = line

		if raw := col(rec, "base_price"); raw != "" {
			// la exportación en español usa coma decimal
			price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("línea %d: base_price inválido: %q", line, raw)
			}
			row.BasePrice = price.Round(2)
		}
		if raw := col(rec, "low_stock_threshold"); raw != "" {
			th, err := strconv.Atoi(raw)
			if err != nil || th < 0 {
				return nil, fmt.Errorf("línea %d: low_stock_threshold inválido: %q", line, raw)
			}
			row.LowStockThreshold = th
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeSQL emite un INSERT por producto. El id se deriva de (sucursal, nombre) para que
// volver a cargar el mismo catálogo actualice en lugar de duplicar.
func writeSQL(w io.Writer, branchID string, rows []catalogRow) error {
	if _, err := fmt.Fprintf(w, "-- Catálogo de productos de la sucursal %s\n-- Generado por cmd/seed_catalog\n\n", branchID); err != nil {
		return err
	}
	for _, r := range rows {
		id := productID(branchID, r.Name)
		_, err := fmt.Fprintf(w,
			"INSERT INTO products (id, branch_id, name, category, product_unit, sale_unit, base_price, low_stock_threshold)\n"+
				"VALUES ('%s', '%s', '%s', '%s', '%s', '%s', %s, %d)\n"+
				"ON CONFLICT (id) DO UPDATE SET category = EXCLUDED.category, product_unit = EXCLUDED.product_unit,\n"+
				"  sale_unit = EXCLUDED.sale_unit, base_price = EXCLUDED.base_price,\n"+
				"  low_stock_threshold = EXCLUDED.low_stock_threshold, updated_at = now();\n",
			id, escapeSQL(branchID), escapeSQL(r.Name), escapeSQL(r.Category), escapeSQL(r.ProductUnit),
			escapeSQL(r.SaleUnit), r.BasePrice.StringFixed(2), r.LowStockThreshold)
		if err != nil {
			return err
		}
	}
	return nil
}

func productID(branchID, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(branchID+"/"+strings.ToLower(name))).String()
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
