package models

// SourceID is the short identifier of a mercuriale ("folkestone", "vendome", ...).
type SourceID string

// Source is one supplier's price catalog.
type Source struct {
	ID       SourceID `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	// Rank is the position in the canonical source order.
	Rank int `json:"-"`
}

// SourceList keeps sources in canonical order.
type SourceList []Source

func (l SourceList) Lookup(id SourceID) (Source, bool) {
	for _, s := range l {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

// Names returns display names for ids, in canonical order, skipping unknown ids.
func (l SourceList) Names(ids map[SourceID]bool) []string {
	var names []string
	for _, s := range l {
		if ids[s.ID] {
			names = append(names, s.Name)
		}
	}
	return names
}
