package search

import (
	"iter"
	"slices"
	"strings"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service"
)

// AllFields selects every field of the Field Set.
const AllFields = "all"

// MinQueryLength below which a substring search returns nothing.
const MinQueryLength = 2

type Engine struct {
	text      service.ITextService
	codeField string
	fields    []string
}

func NewEngine(text service.ITextService, codeField string, fields []string) *Engine {
	return &Engine{
		text:      text,
		codeField: codeField,
		fields:    fields,
	}
}

// Search filters view lazily, keeping its order.
//
// On the code field a query containing a comma is a list of exact codes.
// Everywhere else the query is a case-insensitive substring.
func (e *Engine) Search(view []models.Record, query, field string) iter.Seq[models.Record] {
	match := e.matcher(query, field)
	return func(yield func(models.Record) bool) {
		if match == nil {
			return
		}
		for _, rec := range view {
			if match(rec) && !yield(rec) {
				return
			}
		}
	}
}

// Collect runs Search and returns the results as a slice.
func (e *Engine) Collect(view []models.Record, query, field string) []models.Record {
	return slices.Collect(e.Search(view, query, field))
}

// IsCodeList reports whether the query would run in exact code-list mode.
func (e *Engine) IsCodeList(query, field string) bool {
	return field == e.codeField && strings.Contains(query, ",")
}

func (e *Engine) matcher(query, field string) func(models.Record) bool {
	if e.IsCodeList(query, field) {
		codes := make(map[string]struct{})
		for _, c := range e.text.SplitCodes(query) {
			codes[c] = struct{}{}
		}
		if len(codes) == 0 {
			return nil
		}
		return func(rec models.Record) bool {
			_, ok := codes[e.text.Fold(rec.Code)]
			return ok
		}
	}

	q := e.text.Fold(query)
	if len([]rune(q)) < MinQueryLength {
		return nil
	}

	if field == AllFields {
		return func(rec models.Record) bool {
			for _, f := range e.fields {
				if e.contains(rec, f, q) {
					return true
				}
			}
			return false
		}
	}
	return func(rec models.Record) bool {
		return e.contains(rec, field, q)
	}
}

func (e *Engine) contains(rec models.Record, field, folded string) bool {
	value := rec.Value(field)
	if field == e.codeField {
		value = rec.Code
	}
	return strings.Contains(e.text.Fold(value), folded)
}

// Highlight wraps matches of query in value. Code lists are not highlighted.
func (e *Engine) Highlight(value, query, field, open, close string) string {
	if e.IsCodeList(query, field) {
		return value
	}
	return e.text.Highlight(value, query, open, close)
}
