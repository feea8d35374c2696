package compare

import (
	"iter"
	"strings"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service/money"
)

// Catalogs is the part of the catalog store the comparator reads.
type Catalogs interface {
	All() iter.Seq[models.Record]
	Sources() models.SourceList
}

// Comparison is one source's price for a code.
type Comparison struct {
	Source     models.SourceID
	Name       string
	PriceCents money.Cents
}

type Comparator struct {
	catalogs Catalogs
}

func NewComparator(catalogs Catalogs) *Comparator {
	return &Comparator{catalogs: catalogs}
}

// Comparisons lists the first record per source carrying code, in canonical
// source order, whether the source is enabled or not. Fewer than two sources
// give nil.
func (c *Comparator) Comparisons(code string) []Comparison {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	found := make(map[models.SourceID]money.Cents)
	for rec := range c.catalogs.All() {
		if rec.Code != code {
			continue
		}
		if _, seen := found[rec.Source]; !seen {
			found[rec.Source] = rec.PriceCents
		}
	}
	if len(found) < 2 {
		return nil
	}

	out := make([]Comparison, 0, len(found))
	for _, src := range c.catalogs.Sources() {
		if price, ok := found[src.ID]; ok {
			out = append(out, Comparison{Source: src.ID, Name: src.Name, PriceCents: price})
		}
	}
	return out
}

// Cheapest returns the lowest priced comparison; ties go to the earlier source.
func Cheapest(list []Comparison) (Comparison, bool) {
	if len(list) == 0 {
		return Comparison{}, false
	}
	best := list[0]
	for _, c := range list[1:] {
		if c.PriceCents < best.PriceCents {
			best = c
		}
	}
	return best, true
}
