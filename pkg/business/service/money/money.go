// Package money keeps every monetary amount as integer cents.
// Decimal values only appear at the edges: parsing catalog prices and
// rendering amounts for display or export.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Cents is an amount in euro cents.
type Cents int64

const (
	currencySymbol = "€"
	nbsp           = "\u00a0"
)

// ErrOverflow is returned when an amount does not fit in int64 cents.
var ErrOverflow = errors.New("amount overflows int64 cents")

// ParseToCents converts a raw catalog price ("12,50", "12.5", 12.5, "1 234,56 €")
// into cents. Anything it cannot read yields 0, and so does an amount beyond int64 cents.
func ParseToCents(raw interface{}) Cents {
	var d decimal.Decimal
	switch v := raw.(type) {
	case nil:
		return 0
	case Cents:
		return v
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case json.Number:
		return parseText(v.String())
	case string:
		return parseText(v)
	default:
		return parseText(fmt.Sprint(v))
	}
	return fromDecimal(d)
}

func parseText(s string) Cents {
	if lettersInsideNumber(s) {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}

	// "1.234,56": with both separators present the point groups thousands.
	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return fromDecimal(d)
}

// lettersInsideNumber catches "1e3" or "12a50": a letter between the first and
// the last digit makes the whole price unreadable.
func lettersInsideNumber(s string) bool {
	first := strings.IndexFunc(s, unicode.IsDigit)
	last := strings.LastIndexFunc(s, unicode.IsDigit)
	if first < 0 || first == last {
		return false
	}
	return strings.IndexFunc(s[first:last], unicode.IsLetter) >= 0
}

func fromDecimal(d decimal.Decimal) Cents {
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0
	}
	return Cents(cents.IntPart())
}

// FormatFromCents renders cents the fr-FR way: "1 234,56 €", grouped with no-break spaces.
func FormatFromCents(c Cents) string {
	s := decimal.New(int64(c), -2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	units, fraction, _ := strings.Cut(s, ".")
	return sign + group(units) + "," + fraction + nbsp + currencySymbol
}

func group(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(nbsp)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Decimal renders cents as a plain comma-decimal number without grouping ("1234,56").
func Decimal(c Cents) string {
	return strings.Replace(decimal.New(int64(c), -2).StringFixed(2), ".", ",", 1)
}

// Float returns the amount in euros for writers that need a native number.
func (c Cents) Float() float64 {
	return decimal.New(int64(c), -2).InexactFloat64()
}

// Times multiplies a unit price by a quantity, failing with ErrOverflow.
func (c Cents) Times(quantity int) (Cents, error) {
	product := decimal.NewFromInt(int64(c)).Mul(decimal.NewFromInt(int64(quantity)))
	if !product.BigInt().IsInt64() {
		return 0, errors.Wrapf(ErrOverflow, "%d x %d", int64(c), quantity)
	}
	return Cents(product.IntPart()), nil
}

func (c Cents) String() string {
	return FormatFromCents(c)
}

// Sum adds amounts without leaving integer arithmetic.
func Sum(amounts ...Cents) (Cents, error) {
	var total Cents
	for _, a := range amounts {
		if (a > 0 && total > math.MaxInt64-a) || (a < 0 && total < math.MinInt64-a) {
			return 0, errors.Wrapf(ErrOverflow, "%d + %d", int64(total), int64(a))
		}
		total += a
	}
	return total, nil
}
