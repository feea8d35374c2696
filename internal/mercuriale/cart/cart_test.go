package cart

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service/money"
	"gomercuriale/pkg/logger"
)

type fakeLookup map[models.Key]models.Record

func (f fakeLookup) FindByKey(code string, source models.SourceID) (models.Record, bool) {
	rec, ok := f[models.Key{Code: code, Source: source}]
	return rec, ok
}

type recordingPersister struct {
	saves   [][]models.CartEntry
	cleared int
	err     error
}

func (p *recordingPersister) SaveCart(entries []models.CartEntry) error {
	p.saves = append(p.saves, entries)
	return p.err
}

func (p *recordingPersister) ClearCart() error {
	p.cleared++
	return p.err
}

func (p *recordingPersister) last() []models.CartEntry {
	if len(p.saves) == 0 {
		return nil
	}
	return p.saves[len(p.saves)-1]
}

func product(code string, source models.SourceID, cents money.Cents) models.Record {
	return models.Record{
		Code:       code,
		Source:     source,
		PriceCents: cents,
		Fields:     map[string]interface{}{"Code Produit": code, "Prix": fmt.Sprint(int64(cents))},
	}
}

func newTestCart() (*Cart, *recordingPersister) {
	lookup := fakeLookup{}
	for _, r := range []models.Record{
		product("1234", "folkestone", 1000),
		product("1234", "vendome", 1250),
		product("555", "folkestone", 320),
		product("777", "washington", 333),
	} {
		lookup[r.Key()] = r
	}
	p := &recordingPersister{}
	return NewCart(lookup, p, logger.NewNop()), p
}

func keys(entries []models.CartEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key().String())
	}
	return out
}

func TestCart_AddCopiesRecordWithQuantityOne(t *testing.T) {
	c, p := newTestCart()

	require.NoError(t, c.Add(" 1234 ", "vendome"))

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Quantity)
	assert.EqualValues(t, 1250, entries[0].PriceCents)
	assert.Len(t, p.saves, 1)
}

func TestCart_SameCodeDifferentSourcesAreDistinct(t *testing.T) {
	c, _ := newTestCart()

	require.NoError(t, c.Add("1234", "folkestone"))
	require.NoError(t, c.Add("1234", "vendome"))

	assert.Equal(t, 2, c.Len())
}

func TestCart_AddDuplicateIsRejected(t *testing.T) {
	c, p := newTestCart()
	require.NoError(t, c.Add("1234", "folkestone"))

	err := c.Add("1234", "folkestone")

	assert.True(t, errors.Is(err, models.ErrDuplicateCartEntry))
	assert.Equal(t, 1, c.Len())
	assert.Len(t, p.saves, 1)
}

func TestCart_AddUnknownRecord(t *testing.T) {
	c, p := newTestCart()

	err := c.Add("1234", "washington")

	assert.True(t, errors.Is(err, models.ErrRecordNotFound))
	assert.Zero(t, c.Len())
	assert.Empty(t, p.saves)
}

func TestCart_Remove(t *testing.T) {
	c, p := newTestCart()
	require.NoError(t, c.Add("1234", "folkestone"))
	require.NoError(t, c.Add("555", "folkestone"))

	assert.False(t, c.Remove("555", "vendome"))
	assert.Len(t, p.saves, 2)

	assert.True(t, c.Remove("1234", "folkestone"))
	assert.Equal(t, []string{"555@folkestone"}, keys(c.Entries()))
	assert.Equal(t, []string{"555@folkestone"}, keys(p.last()))
}

func TestCart_SetQuantityKeepsPosition(t *testing.T) {
	c, p := newTestCart()
	require.NoError(t, c.Add("1234", "folkestone"))
	require.NoError(t, c.Add("555", "folkestone"))
	require.NoError(t, c.Add("777", "washington"))

	assert.True(t, setQuantity(t, c, "555", "folkestone", " 4 "))

	entries := c.Entries()
	assert.Equal(t, []string{"1234@folkestone", "555@folkestone", "777@washington"}, keys(entries))
	assert.Equal(t, 4, entries[1].Quantity)
	assert.Equal(t, 4, p.last()[1].Quantity)
}

func TestCart_SetQuantityInvalidRemoves(t *testing.T) {
	for _, raw := range []string{"0", "-3", "abc", "", "2.5"} {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			c, _ := newTestCart()
			require.NoError(t, c.Add("1234", "folkestone"))
			require.NoError(t, c.Add("555", "folkestone"))

			assert.True(t, setQuantity(t, c, "1234", "folkestone", raw))
			assert.Equal(t, []string{"555@folkestone"}, keys(c.Entries()))
		})
	}
}

func TestCart_SetQuantityMissingEntry(t *testing.T) {
	c, p := newTestCart()

	assert.False(t, setQuantity(t, c, "1234", "folkestone", "3"))
	assert.False(t, setQuantity(t, c, "1234", "folkestone", "0"))
	assert.Empty(t, p.saves)
}

func TestCart_TotalHasNoDrift(t *testing.T) {
	c, _ := newTestCart()
	require.NoError(t, c.Add("777", "washington"))
	require.NoError(t, c.Add("555", "folkestone"))
	require.True(t, setQuantity(t, c, "777", "washington", "3"))
	require.True(t, setQuantity(t, c, "555", "folkestone", "7"))

	var reference money.Cents
	for _, e := range c.Entries() {
		reference += money.Cents(int64(e.PriceCents) * int64(e.Quantity))
	}

	total, err := c.Total()
	require.NoError(t, err)
	assert.EqualValues(t, 333*3+320*7, total)
	assert.Equal(t, reference, total)
}

func TestCart_HugeQuantityIsInvalid(t *testing.T) {
	c, p := newTestCart()
	require.NoError(t, c.Add("1234", "vendome"))

	assert.True(t, setQuantity(t, c, "1234", "vendome", "100000000000000000"))
	assert.Zero(t, c.Len())
	assert.Empty(t, p.last())

	total, err := c.Total()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCart_QuantityOverflowingTotalIsRefused(t *testing.T) {
	c, p := newTestCart()
	c.lookup.(fakeLookup)[models.Key{Code: "9", Source: "vendome"}] = product("9", "vendome", math.MaxInt64/2)
	require.NoError(t, c.Add("9", "vendome"))
	saves := len(p.saves)

	found, err := c.SetQuantity("9", "vendome", "3")
	assert.True(t, found)
	assert.True(t, errors.Is(err, money.ErrOverflow))
	assert.Equal(t, 1, c.Entries()[0].Quantity)
	assert.Len(t, p.saves, saves)

	total, err := c.Total()
	require.NoError(t, err)
	assert.EqualValues(t, math.MaxInt64/2, total)
}

func TestCart_AddOverflowingTotalIsRefused(t *testing.T) {
	c, _ := newTestCart()
	lookup := c.lookup.(fakeLookup)
	lookup[models.Key{Code: "8", Source: "vendome"}] = product("8", "vendome", math.MaxInt64-10)
	lookup[models.Key{Code: "9", Source: "vendome"}] = product("9", "vendome", 11)
	require.NoError(t, c.Add("8", "vendome"))

	err := c.Add("9", "vendome")
	assert.True(t, errors.Is(err, money.ErrOverflow))
	assert.Equal(t, 1, c.Len())
}

func TestCart_EntriesAreCopies(t *testing.T) {
	c, _ := newTestCart()
	require.NoError(t, c.Add("1234", "folkestone"))

	entries := c.Entries()
	entries[0].Quantity = 99
	entries[0].Fields["Prix"] = "0"

	fresh := c.Entries()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "1000", fresh[0].Value("Prix"))
}

func TestCart_Clear(t *testing.T) {
	c, p := newTestCart()
	require.NoError(t, c.Add("1234", "folkestone"))

	c.Clear()

	assert.Zero(t, c.Len())
	assert.Equal(t, 1, p.cleared)
}

func TestCart_PersistFailureKeepsMutation(t *testing.T) {
	c, p := newTestCart()
	p.err = errors.New("disk full")

	require.NoError(t, c.Add("1234", "folkestone"))

	assert.Equal(t, 1, c.Len())
}

func TestCart_RestoreDropsInvalidEntries(t *testing.T) {
	c, p := newTestCart()
	a := product("1", "vendome", 100)
	b := product("2", "vendome", 200)

	c.Restore([]models.CartEntry{
		{Record: a, Quantity: 2},
		{Record: a, Quantity: 5},
		{Record: b, Quantity: 0},
		{Record: product("3", "vendome", 300), Quantity: MaxQuantity + 1},
		{Record: product("4", "vendome", math.MaxInt64), Quantity: 1},
	})

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.True(t, c.Contains("1", "vendome"))
	assert.Empty(t, p.saves)
}

func TestParseQuantity(t *testing.T) {
	q, ok := ParseQuantity("12")
	assert.True(t, ok)
	assert.Equal(t, 12, q)

	q, ok = ParseQuantity(fmt.Sprint(MaxQuantity))
	assert.True(t, ok)
	assert.Equal(t, MaxQuantity, q)

	for _, raw := range []string{"0", "-1", fmt.Sprint(MaxQuantity + 1), "100000000000000000", "99999999999999999999"} {
		_, ok = ParseQuantity(raw)
		assert.False(t, ok, raw)
	}
}

func setQuantity(t *testing.T, c *Cart, code string, source models.SourceID, raw string) bool {
	t.Helper()
	found, err := c.SetQuantity(code, source, raw)
	require.NoError(t, err)
	return found
}
