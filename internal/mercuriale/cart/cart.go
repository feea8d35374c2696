package cart

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service/money"
	"gomercuriale/pkg/logger"
)

// Lookup resolves a record by (code, source) across every loaded catalog.
type Lookup interface {
	FindByKey(code string, source models.SourceID) (models.Record, bool)
}

// Persister mirrors the cart after each mutation.
type Persister interface {
	SaveCart(entries []models.CartEntry) error
	ClearCart() error
}

// MaxQuantity bounds a line's quantity; larger inputs are invalid.
const MaxQuantity = 99999

// Cart is the order list. At most one entry per (code, source), quantity always >= 1.
type Cart struct {
	mu      sync.Mutex
	entries []models.CartEntry
	lookup  Lookup
	persist Persister
	log     logger.Logger
}

func NewCart(lookup Lookup, persist Persister, log logger.Logger) *Cart {
	return &Cart{
		lookup:  lookup,
		persist: persist,
		log:     log,
	}
}

// Add appends a copy of the record with quantity 1.
func (c *Cart) Add(code string, source models.SourceID) error {
	code = strings.TrimSpace(code)

	c.mu.Lock()
	defer c.mu.Unlock()

	key := models.Key{Code: code, Source: source}
	if c.indexOf(key) >= 0 {
		return errors.Wrap(models.ErrDuplicateCartEntry, key.String())
	}
	rec, ok := c.lookup.FindByKey(code, source)
	if !ok {
		return errors.Wrap(models.ErrRecordNotFound, key.String())
	}

	entries := append(slices.Clone(c.entries), models.CartEntry{Record: rec.Clone(), Quantity: 1})
	if _, err := total(entries); err != nil {
		return errors.Wrap(err, key.String())
	}
	c.entries = entries
	c.log.Log("Cart: added %s", key)
	c.save()
	return nil
}

// Remove reports whether an entry was removed.
func (c *Cart) Remove(code string, source models.SourceID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(models.Key{Code: strings.TrimSpace(code), Source: source})
}

// SetQuantity updates the entry in place. Anything but an integer in
// [1, MaxQuantity] removes it. It reports whether the entry existed. A quantity
// that would overflow the cart total is refused with money.ErrOverflow and the
// entry keeps its previous quantity.
func (c *Cart) SetQuantity(code string, source models.SourceID, raw string) (bool, error) {
	key := models.Key{Code: strings.TrimSpace(code), Source: source}

	c.mu.Lock()
	defer c.mu.Unlock()

	qty, ok := ParseQuantity(raw)
	if !ok {
		return c.remove(key), nil
	}
	i := c.indexOf(key)
	if i < 0 {
		return false, nil
	}

	entries := slices.Clone(c.entries)
	entries[i].Quantity = qty
	if _, err := total(entries); err != nil {
		c.log.Error("Cart: %s quantity %d refused: %v", key, qty, err)
		return true, errors.Wrap(err, key.String())
	}
	c.entries = entries
	c.log.Log("Cart: %s quantity %d", key, qty)
	c.save()
	return true, nil
}

// Total is computed in integer cents.
func (c *Cart) Total() (money.Cents, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return total(c.entries)
}

func total(entries []models.CartEntry) (money.Cents, error) {
	var sum money.Cents
	for _, e := range entries {
		line, err := e.LineTotal()
		if err != nil {
			return 0, err
		}
		if sum, err = money.Sum(sum, line); err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// Entries returns copies in cart order.
func (c *Cart) Entries() []models.CartEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = models.CartEntry{Record: e.Record.Clone(), Quantity: e.Quantity}
	}
	return out
}

func (c *Cart) Contains(code string, source models.SourceID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(models.Key{Code: strings.TrimSpace(code), Source: source}) >= 0
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear empties the cart and erases the persisted copy.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	if c.persist == nil {
		return
	}
	if err := c.persist.ClearCart(); err != nil {
		c.log.Error("Cart: clear persisted state: %v", err)
	}
}

// Restore replaces the entries with persisted ones without writing them back.
// Duplicates, quantities outside [1, MaxQuantity] and entries that would
// overflow the total are dropped.
func (c *Cart) Restore(entries []models.CartEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[models.Key]bool, len(entries))
	restored := make([]models.CartEntry, 0, len(entries))
	for _, e := range entries {
		if e.Quantity < 1 || e.Quantity > MaxQuantity || seen[e.Key()] {
			c.log.Error("Cart: dropping persisted entry %s (quantity %d)", e.Key(), e.Quantity)
			continue
		}
		if _, err := total(append(slices.Clone(restored), e)); err != nil {
			c.log.Error("Cart: dropping persisted entry %s: %v", e.Key(), err)
			continue
		}
		seen[e.Key()] = true
		restored = append(restored, e)
	}
	c.entries = restored
}

// ParseQuantity accepts integers from 1 to MaxQuantity.
func ParseQuantity(raw string) (int, bool) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 1 || qty > MaxQuantity {
		return 0, false
	}
	return qty, true
}

func (c *Cart) remove(key models.Key) bool {
	i := c.indexOf(key)
	if i < 0 {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	c.log.Log("Cart: removed %s", key)
	c.save()
	return true
}

func (c *Cart) indexOf(key models.Key) int {
	return slices.IndexFunc(c.entries, func(e models.CartEntry) bool {
		return e.Key() == key
	})
}

// save never fails the mutation: the in-memory cart stays authoritative.
func (c *Cart) save() {
	if c.persist == nil {
		return
	}
	if err := c.persist.SaveCart(slices.Clone(c.entries)); err != nil {
		c.log.Error("Cart: persist: %v", err)
	}
}
