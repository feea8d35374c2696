package export

import (
	"unicode/utf8"

	"gomercuriale/pkg/business/service/money"
)

type CellKind int

const (
	TextCell CellKind = iota
	IntCell
	MoneyCell
)

// Cell keeps numbers numeric so spreadsheet writers can format them.
type Cell struct {
	Kind  CellKind
	Text  string
	Int   int
	Cents money.Cents
}

// Value is the native value to hand to a spreadsheet writer.
func (c Cell) Value() interface{} {
	switch c.Kind {
	case IntCell:
		return c.Int
	case MoneyCell:
		return c.Cents.Float()
	default:
		return c.Text
	}
}

const (
	minWidth = 8
	maxWidth = 60
)

type Grid struct {
	Rows [][]Cell
	// CurrencyColumns are flagged for currency display.
	CurrencyColumns []int
	// Widths suggests a width per column, sized on its longest text.
	Widths []int
}

func text(s string) Cell { return Cell{Kind: TextCell, Text: s} }

// Tabular renders the table as typed cells. Price and total stay numbers.
func (t *Table) Tabular() *Grid {
	header := t.Header()
	g := &Grid{Rows: make([][]Cell, 0, len(t.Rows)+2)}

	hr := make([]Cell, len(header))
	for i, h := range header {
		hr[i] = text(h)
	}
	g.Rows = append(g.Rows, hr)

	for _, row := range t.Rows {
		cells := make([]Cell, 0, len(header))
		cells = append(cells, text(row.Source))
		for i, v := range row.Values {
			if i == t.PriceColumn {
				cells = append(cells, Cell{Kind: MoneyCell, Cents: row.PriceCents})
				continue
			}
			cells = append(cells, text(v))
		}
		cells = append(cells,
			Cell{Kind: IntCell, Int: row.Quantity},
			Cell{Kind: MoneyCell, Cents: row.LineTotal})
		g.Rows = append(g.Rows, cells)
	}

	trailer := make([]Cell, 0, len(header))
	trailer = append(trailer, text(TotalLabel))
	for range t.Columns {
		trailer = append(trailer, text(""))
	}
	trailer = append(trailer,
		Cell{Kind: IntCell, Int: t.TotalQuantity},
		Cell{Kind: MoneyCell, Cents: t.GrandTotal})
	g.Rows = append(g.Rows, trailer)

	if t.PriceColumn >= 0 {
		g.CurrencyColumns = append(g.CurrencyColumns, t.PriceColumn+1)
	}
	g.CurrencyColumns = append(g.CurrencyColumns, len(header)-1)
	g.Widths = widths(g.Rows, len(header))
	return g
}

func widths(rows [][]Cell, n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = minWidth
	}
	for _, row := range rows {
		for i, c := range row {
			if c.Kind != TextCell {
				continue
			}
			if l := utf8.RuneCountInString(c.Text) + 2; l > w[i] {
				w[i] = min(l, maxWidth)
			}
		}
	}
	return w
}
