package export

import (
	"github.com/pkg/errors"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service/money"
)

const (
	SourceHeader   = "Source"
	QuantityHeader = "Quantity"
	TotalHeader    = "Total"
	TotalLabel     = "Total"
)

// Row is one cart entry with its figures already computed.
type Row struct {
	Source     string
	Values     []string
	PriceCents money.Cents
	Quantity   int
	LineTotal  money.Cents
}

// Table is computed once per export; both output forms read it.
type Table struct {
	Columns       []string
	PriceColumn   int // index in Columns, -1 when the price field is hidden
	Rows          []Row
	TotalQuantity int
	GrandTotal    money.Cents
}

// BuildTable projects the cart on the visible columns.
func BuildTable(entries []models.CartEntry, columns []string, sources models.SourceList, priceField string) (*Table, error) {
	if len(entries) == 0 {
		return nil, models.ErrEmptyCart
	}

	t := &Table{
		Columns:     append([]string(nil), columns...),
		PriceColumn: -1,
		Rows:        make([]Row, 0, len(entries)),
	}
	for i, col := range columns {
		if col == priceField {
			t.PriceColumn = i
			break
		}
	}

	for _, e := range entries {
		name := string(e.Source)
		if src, ok := sources.Lookup(e.Source); ok {
			name = src.Name
		}
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = e.Value(col)
		}
		line, err := e.LineTotal()
		if err != nil {
			return nil, errors.Wrap(err, e.Key().String())
		}
		total, err := money.Sum(t.GrandTotal, line)
		if err != nil {
			return nil, errors.Wrap(err, "grand total")
		}
		t.Rows = append(t.Rows, Row{
			Source:     name,
			Values:     values,
			PriceCents: e.PriceCents,
			Quantity:   e.Quantity,
			LineTotal:  line,
		})
		t.TotalQuantity += e.Quantity
		t.GrandTotal = total
	}
	return t, nil
}

// Header is "Source", the visible columns, then "Quantity" and "Total".
func (t *Table) Header() []string {
	h := make([]string, 0, len(t.Columns)+3)
	h = append(h, SourceHeader)
	h = append(h, t.Columns...)
	return append(h, QuantityHeader, TotalHeader)
}
