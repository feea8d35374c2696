package columns

import (
	"slices"
	"sync"

	"github.com/pkg/errors"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/logger"
)

type Persister interface {
	SaveColumns(fields []string) error
}

// Projector keeps the visible columns, always a subset of the Field Set in its order.
type Projector struct {
	mu       sync.Mutex
	fields   []string
	defaults []string
	visible  map[string]bool
	persist  Persister
	log      logger.Logger
}

// NewProjector starts from defaults; names outside fields are ignored.
func NewProjector(fields, defaults []string, persist Persister, log logger.Logger) *Projector {
	p := &Projector{
		fields:   slices.Clone(fields),
		defaults: slices.Clone(defaults),
		persist:  persist,
		log:      log,
	}
	p.visible = p.selection(defaults)
	return p
}

// Toggle shows or hides a field and persists the new selection.
func (p *Projector) Toggle(field string, visible bool) error {
	if !slices.Contains(p.fields, field) {
		return errors.Wrapf(models.ErrUnknownField, "%q", field)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.visible[field] == visible {
		return nil
	}
	p.visible[field] = visible
	p.save()
	return nil
}

func (p *Projector) VisibleFields() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ordered()
}

func (p *Projector) IsVisible(field string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible[field]
}

// AllFields is the Field Set offered for selection.
func (p *Projector) AllFields() []string {
	return slices.Clone(p.fields)
}

// Restore applies a persisted selection without writing it back.
// An empty or entirely unknown selection falls back to the defaults.
func (p *Projector) Restore(fields []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel := p.selection(fields)
	if len(sel) == 0 {
		sel = p.selection(p.defaults)
	}
	p.visible = sel
}

// Reset goes back to the default columns without persisting them.
func (p *Projector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = p.selection(p.defaults)
}

func (p *Projector) selection(names []string) map[string]bool {
	sel := make(map[string]bool, len(names))
	for _, n := range names {
		if slices.Contains(p.fields, n) {
			sel[n] = true
		} else {
			p.log.Log("Columns: ignoring unknown field %q", n)
		}
	}
	return sel
}

func (p *Projector) ordered() []string {
	out := make([]string, 0, len(p.visible))
	for _, f := range p.fields {
		if p.visible[f] {
			out = append(out, f)
		}
	}
	return out
}

func (p *Projector) save() {
	if p.persist == nil {
		return
	}
	if err := p.persist.SaveColumns(p.ordered()); err != nil {
		p.log.Error("Columns: persist: %v", err)
	}
}
