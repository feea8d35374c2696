package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service/money"
	"gomercuriale/pkg/logger"
)

const bom = "\ufeff"

var sources = models.SourceList{
	{ID: "folkestone", Name: "Folkestone", Rank: 0},
	{ID: "vendome", Name: "Vendôme", Rank: 1},
}

func testEntries() []models.CartEntry {
	return []models.CartEntry{
		{
			Record: models.Record{
				Code: "1234", Source: "folkestone", PriceCents: 1000,
				Fields: map[string]interface{}{"Code Produit": "1234", "Libellé produit": "Beurre", "Prix": "10,00"},
			},
			Quantity: 2,
		},
		{
			Record: models.Record{
				Code: "555", Source: "vendome", PriceCents: 333,
				Fields: map[string]interface{}{"Code Produit": "555", "Libellé produit": `Crème "fraîche"; 20%`, "Prix": "3,33"},
			},
			Quantity: 3,
		},
	}
}

func testTable(t *testing.T, columns ...string) *Table {
	t.Helper()
	table, err := BuildTable(testEntries(), columns, sources, "Prix")
	require.NoError(t, err)
	return table
}

func TestBuildTable_EmptyCart(t *testing.T) {
	_, err := BuildTable(nil, []string{"Prix"}, sources, "Prix")
	assert.True(t, errors.Is(err, models.ErrEmptyCart))
}

func TestBuildTable_RejectsOverflowingTotals(t *testing.T) {
	entries := testEntries()
	entries[0].Quantity = 100000000000000000
	_, err := BuildTable(entries, []string{"Prix"}, sources, "Prix")
	assert.True(t, errors.Is(err, money.ErrOverflow))

	entries = testEntries()
	entries[0].PriceCents = math.MaxInt64 / 2
	entries[1].PriceCents = math.MaxInt64 / 2
	entries[0].Quantity, entries[1].Quantity = 1, 1
	_, err = BuildTable(append(entries, entries[0]), []string{"Prix"}, sources, "Prix")
	assert.True(t, errors.Is(err, money.ErrOverflow))
}

func TestBuildTable_Totals(t *testing.T) {
	table := testTable(t, "Libellé produit", "Prix")

	assert.Equal(t, []string{"Source", "Libellé produit", "Prix", "Quantity", "Total"}, table.Header())
	assert.Equal(t, 1, table.PriceColumn)
	assert.Equal(t, 5, table.TotalQuantity)
	assert.EqualValues(t, 2999, table.GrandTotal)
	assert.EqualValues(t, 999, table.Rows[1].LineTotal)
	assert.Equal(t, "Vendôme", table.Rows[1].Source)
}

func TestDelimitedText(t *testing.T) {
	table := testTable(t, "Libellé produit", "Prix")

	got, err := table.DelimitedText()
	require.NoError(t, err)

	want := bom +
		"Source;Libellé produit;Prix;Quantity;Total\n" +
		"Folkestone;Beurre;10,00;2;20,00\n" +
		"Vendôme;\"Crème \"\"fraîche\"\"; 20%\";3,33;3;9,99\n" +
		"Total;;;5;29,99\n"
	assert.Equal(t, want, got)
}

func TestDelimitedText_ColumnOrderAndMissingValues(t *testing.T) {
	table := testTable(t, "Prix", "Marque", "Code Produit")

	got, err := table.DelimitedText()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimPrefix(got, bom), "\n")
	assert.Equal(t, "Source;Prix;Marque;Code Produit;Quantity;Total", lines[0])
	assert.Equal(t, "Folkestone;10,00;;1234;2;20,00", lines[1])
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "plain text", quote("plain text"))
	assert.Equal(t, " leading space", quote(" leading space"))
	assert.Equal(t, `"a;b"`, quote("a;b"))
	assert.Equal(t, `"say ""hi"""`, quote(`say "hi"`))
	assert.Equal(t, "\"two\nlines\"", quote("two\nlines"))
}

func TestTabular(t *testing.T) {
	table := testTable(t, "Libellé produit", "Prix")

	g := table.Tabular()

	require.Len(t, g.Rows, 4)
	header := make([]string, 0, len(g.Rows[0]))
	for _, c := range g.Rows[0] {
		header = append(header, c.Text)
	}
	assert.Equal(t, table.Header(), header)

	row := g.Rows[1]
	assert.Equal(t, Cell{Kind: TextCell, Text: "Folkestone"}, row[0])
	assert.Equal(t, Cell{Kind: MoneyCell, Cents: 1000}, row[2])
	assert.Equal(t, Cell{Kind: IntCell, Int: 2}, row[3])
	assert.Equal(t, Cell{Kind: MoneyCell, Cents: 2000}, row[4])
	assert.Equal(t, 10.0, row[2].Value())
	assert.Equal(t, 2, row[3].Value())

	trailer := g.Rows[3]
	assert.Equal(t, "Total", trailer[0].Text)
	assert.Equal(t, 5, trailer[3].Int)
	assert.EqualValues(t, 2999, trailer[4].Cents)

	assert.Equal(t, []int{2, 4}, g.CurrencyColumns)
	assert.Equal(t, 12, g.Widths[0])
	assert.Equal(t, len("Quantity")+2, g.Widths[3])
}

func TestTabular_HiddenPriceColumn(t *testing.T) {
	table := testTable(t, "Libellé produit")

	g := table.Tabular()

	assert.Equal(t, -1, table.PriceColumn)
	assert.Equal(t, []int{3}, g.CurrencyColumns)
	assert.Equal(t, TextCell, g.Rows[1][1].Kind)
}

func TestBothFormsAgreeOnFigures(t *testing.T) {
	table := testTable(t, "Libellé produit", "Prix")

	csv, err := table.DelimitedText()
	require.NoError(t, err)
	g := table.Tabular()

	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")
	require.Len(t, lines, len(g.Rows))
	for i := 1; i < len(lines); i++ {
		cells := strings.Split(lines[i], ";")
		last := cells[len(cells)-1]
		assert.Equal(t, g.Rows[i][len(g.Rows[i])-1].Cents, money.ParseToCents(last), lines[i])
	}
}

func TestWriteXLSX(t *testing.T) {
	table := testTable(t, "Libellé produit", "Prix")

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(table.Tabular(), "", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}
	for cell, want := range map[string]string{
		"A1": "Source",
		"B2": "Beurre",
		"C2": "10",
		"D3": "3",
		"E3": "9.99",
		"A4": "Total",
		"E4": "29.99",
	} {
		got, err := f.GetCellValue(DefaultSheet, cell, raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "commande_2024-03-07.csv", Filename("csv", date))
	assert.Equal(t, "commande_2024-03-07.xlsx", Filename("xlsx", date))
}

func TestExporter_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(filepath.Join(dir, "out"), "Commande", logger.NewNop())
	e.now = func() time.Time { return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) }
	table := testTable(t, "Libellé produit", "Prix")

	path, err := e.WriteCSV(table)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "commande_2024-03-07.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), bom+"Source;"))

	path, err = e.WriteXLSX(table)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
