package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_Latin1ConPuntoYComa(t *testing.T) {
	utf := "name;category;product_unit;sale_unit;base_price;low_stock_threshold\n" +
		"Café en grano;granos;kg;taza;45000,50;10\n" +
		"Azúcar morena;endulzantes;kg;sobre;3200;5\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := parseCatalog([]byte(latin1))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Café en grano", rows[0].Name)
	assert.Equal(t, "45000.50", rows[0].BasePrice.StringFixed(2))
	assert.Equal(t, 10, rows[0].LowStockThreshold)
	assert.Equal(t, "Azúcar morena", rows[1].Name)
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog([]byte("category\ngranos\n"))
	assert.ErrorContains(t, err, "name")

	_, err = parseCatalog([]byte("name,base_price\nLeche,-1\n"))
	assert.ErrorContains(t, err, "línea 2")

	_, err = parseCatalog([]byte("name\nLeche\nleche\n"))
	assert.ErrorContains(t, err, "repetido")
}

func TestWriteSQL_IdEstableYEscapado(t *testing.T) {
	rows, err := parseCatalog([]byte("name,category\nD'Artagnan blend,granos\n"))
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, writeSQL(&a, "br-1", rows))
	require.NoError(t, writeSQL(&b, "br-1", rows))
	assert.Equal(t, a.String(), b.String())
	assert.Contains(t, a.String(), "'D''Artagnan blend'")
	assert.Contains(t, a.String(), productID("br-1", "d'artagnan BLEND"))
	assert.Equal(t, 1, strings.Count(a.String(), "INSERT INTO products"))
}
