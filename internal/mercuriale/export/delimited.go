package export

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"gomercuriale/pkg/business/service/money"
)

const Delimiter = ';'

// DelimitedText renders the table as ';' separated text with a UTF-8 BOM.
func (t *Table) DelimitedText() (string, error) {
	var b strings.Builder
	writeLine(&b, t.Header())

	blank := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		line := make([]string, 0, len(t.Columns)+3)
		line = append(line, row.Source)
		line = append(line, row.Values...)
		line = append(line, strconv.Itoa(row.Quantity), money.Decimal(row.LineTotal))
		writeLine(&b, line)
	}

	trailer := append([]string{TotalLabel}, blank...)
	trailer = append(trailer, strconv.Itoa(t.TotalQuantity), money.Decimal(t.GrandTotal))
	writeLine(&b, trailer)

	return unicode.UTF8BOM.NewEncoder().String(b.String())
}

func writeLine(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(Delimiter)
		}
		b.WriteString(quote(c))
	}
	b.WriteByte('\n')
}

// quote wraps cells holding the delimiter, a quote or a line break; other cells stay verbatim.
func quote(cell string) string {
	if !strings.ContainsAny(cell, "\";\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
