package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gomercuriale/config/values"
	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service"
	"gomercuriale/pkg/business/service/money"
)

// Reserved keys added to each persisted record.
const (
	SourceKey   = "_source"
	QuantityKey = "_quantity"
)

type Keys struct {
	Cart    string
	Columns string
}

// Adapter serializes the cart and the visible columns into a KVStore.
type Adapter struct {
	kv     KVStore
	keys   Keys
	fields values.CatalogFields
	text   service.ITextService
}

func NewAdapter(kv KVStore, keys Keys, fields values.CatalogFields, text service.ITextService) *Adapter {
	return &Adapter{kv: kv, keys: keys, fields: fields, text: text}
}

// SaveCart stores the entries as a JSON array of records decorated with _source and _quantity.
func (a *Adapter) SaveCart(entries []models.CartEntry) error {
	items := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		item := make(map[string]interface{}, len(e.Fields)+2)
		for k, v := range e.Fields {
			item[k] = v
		}
		item[SourceKey] = string(e.Source)
		item[QuantityKey] = e.Quantity
		items = append(items, item)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return a.kv.Set(a.keys.Cart, string(data))
}

// LoadCart returns nil when nothing was saved. A missing quantity counts as 1.
func (a *Adapter) LoadCart() ([]models.CartEntry, error) {
	raw, ok, err := a.kv.Get(a.keys.Cart)
	if err != nil || !ok {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var items []map[string]interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	entries := make([]models.CartEntry, 0, len(items))
	for i, item := range items {
		source, _ := item[SourceKey].(string)
		if source == "" {
			return nil, fmt.Errorf("decode cart: entry %d has no %s", i, SourceKey)
		}
		quantity := 1
		if n, ok := item[QuantityKey].(json.Number); ok {
			q, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("decode cart: entry %d quantity %q: %w", i, n, err)
			}
			quantity = int(q)
		}
		delete(item, SourceKey)
		delete(item, QuantityKey)

		entries = append(entries, models.CartEntry{
			Record: models.Record{
				Code:       a.text.NormalizeCode(item[a.fields.Code]),
				PriceCents: money.ParseToCents(item[a.fields.Price]),
				Source:     models.SourceID(source),
				Fields:     item,
			},
			Quantity: quantity,
		})
	}
	return entries, nil
}

func (a *Adapter) ClearCart() error {
	return a.kv.Delete(a.keys.Cart)
}

func (a *Adapter) SaveColumns(fields []string) error {
	if fields == nil {
		fields = []string{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}
	return a.kv.Set(a.keys.Columns, string(data))
}

// LoadColumns reports ok=false when no selection was saved.
func (a *Adapter) LoadColumns() ([]string, bool, error) {
	raw, ok, err := a.kv.Get(a.keys.Columns)
	if err != nil || !ok {
		return nil, false, err
	}
	var fields []string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, false, fmt.Errorf("decode columns: %w", err)
	}
	return fields, true, nil
}

// Reset erases both the cart and the column selection.
func (a *Adapter) Reset() error {
	return a.kv.Delete(a.keys.Cart, a.keys.Columns)
}
