package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"gomercuriale/config/values"
	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service"
	"gomercuriale/pkg/business/service/money"
)

// Decoder reads one catalog: a JSON array of flat objects.
type Decoder struct {
	fields values.CatalogFields
	text   service.ITextService
}

func NewDecoder(fields values.CatalogFields, text service.ITextService) *Decoder {
	return &Decoder{fields: fields, text: text}
}

// Decode returns the records tagged with source and the key order of the first object.
func (d *Decoder) Decode(r io.Reader, source models.SourceID) ([]models.Record, []string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, nil, err
	}

	var (
		records []models.Record
		order   []string
	)
	for dec.More() {
		fields, keys, err := decodeObject(dec)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		if order == nil {
			order = keys
		}
		records = append(records, models.Record{
			Code:       d.text.NormalizeCode(fields[d.fields.Code]),
			PriceCents: money.ParseToCents(fields[d.fields.Price]),
			Source:     source,
			Fields:     fields,
		})
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, nil, err
	}
	return records, order, nil
}

func decodeObject(dec *json.Decoder) (map[string]interface{}, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}

	fields := make(map[string]interface{})
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, seen := fields[key]; !seen {
			keys = append(keys, key)
		}
		fields[key] = value
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return fields, keys, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if got, ok := tok.(json.Delim); !ok || got != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
