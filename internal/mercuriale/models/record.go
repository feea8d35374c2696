package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gomercuriale/pkg/business/service/money"
)

// Key identifies a record: the same code may exist in several sources.
type Key struct {
	Code   string   `json:"code"`
	Source SourceID `json:"source"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%s", k.Code, k.Source)
}

// Record is one catalog row. Code and PriceCents are extracted at ingestion;
// Fields keeps every original value for display and export.
type Record struct {
	Code       string
	PriceCents money.Cents
	Source     SourceID
	Fields     map[string]interface{}
}

func (r Record) Key() Key {
	return Key{Code: r.Code, Source: r.Source}
}

// Value renders a field as text; missing values give "".
func (r Record) Value(field string) string {
	return FormatValue(r.Fields[field])
}

// Clone copies the record so cart entries never share the catalog's map.
func (r Record) Clone() Record {
	fields := make(map[string]interface{}, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	r.Fields = fields
	return r
}

// FormatValue renders a JSON scalar the way it appeared in the catalog.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// CartEntry is a copy of a record selected for the order, with its quantity.
type CartEntry struct {
	Record
	Quantity int
}

// LineTotal is price times quantity, in cents. It fails with money.ErrOverflow.
func (e CartEntry) LineTotal() (money.Cents, error) {
	return e.PriceCents.Times(e.Quantity)
}
