package catalog

import (
	"iter"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"gomercuriale/internal/mercuriale/models"
)

// Store holds the immutable source catalogs and the merged view over the enabled ones.
type Store struct {
	sources  models.SourceList
	catalogs map[models.SourceID][]models.Record
	index    map[models.Key]models.Record
	fields   []string

	enabled map[models.SourceID]bool
	view    []models.Record
}

func NewStore(sources models.SourceList, catalogs map[models.SourceID][]models.Record, fields []string) *Store {
	s := &Store{
		sources:  sources,
		catalogs: catalogs,
		index:    make(map[models.Key]models.Record),
		fields:   fields,
		enabled:  make(map[models.SourceID]bool),
	}
	for _, src := range sources {
		for _, rec := range catalogs[src.ID] {
			if _, dup := s.index[rec.Key()]; !dup {
				s.index[rec.Key()] = rec
			}
		}
	}
	return s
}

// SetEnabledSources rebuilds the merged view. The view follows the canonical
// source order whatever the order of ids.
func (s *Store) SetEnabledSources(ids ...models.SourceID) error {
	enabled := make(map[models.SourceID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.sources.Lookup(id); !ok {
			return errors.Wrapf(models.ErrUnknownSource, "%q", id)
		}
		enabled[id] = true
	}

	var view []models.Record
	for _, src := range s.sources {
		if enabled[src.ID] {
			view = append(view, s.catalogs[src.ID]...)
		}
	}
	s.enabled = enabled
	s.view = view
	return nil
}

// EnabledSources returns enabled ids in canonical order.
func (s *Store) EnabledSources() []models.SourceID {
	var ids []models.SourceID
	for _, src := range s.sources {
		if s.enabled[src.ID] {
			ids = append(ids, src.ID)
		}
	}
	return ids
}

func (s *Store) IsEnabled(id models.SourceID) bool {
	return s.enabled[id]
}

func (s *Store) CurrentView() []models.Record {
	return slices.Clone(s.view)
}

// FindByKey looks in every catalog, enabled or not.
func (s *Store) FindByKey(code string, source models.SourceID) (models.Record, bool) {
	rec, ok := s.index[models.Key{Code: strings.TrimSpace(code), Source: source}]
	return rec, ok
}

// All yields every record of every catalog in canonical source order.
func (s *Store) All() iter.Seq[models.Record] {
	return func(yield func(models.Record) bool) {
		for _, src := range s.sources {
			for _, rec := range s.catalogs[src.ID] {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

func (s *Store) Fields() []string {
	return slices.Clone(s.fields)
}

func (s *Store) Sources() models.SourceList {
	return s.sources
}

// Count is the number of records in the source's catalog.
func (s *Store) Count(id models.SourceID) int {
	return len(s.catalogs[id])
}
