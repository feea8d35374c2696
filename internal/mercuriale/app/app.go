package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"gomercuriale/config"
	"gomercuriale/internal/mercuriale/cart"
	"gomercuriale/internal/mercuriale/catalog"
	"gomercuriale/internal/mercuriale/columns"
	"gomercuriale/internal/mercuriale/compare"
	"gomercuriale/internal/mercuriale/export"
	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/internal/mercuriale/search"
	"gomercuriale/internal/mercuriale/storage"
	"gomercuriale/metrics"
	"gomercuriale/pkg/business/service"
	"gomercuriale/pkg/business/service/fetcher"
	"gomercuriale/pkg/logger"
	"gomercuriale/pkg/middleware"
)

// App owns the whole session state: catalogs, cart, columns and the last search.
type App struct {
	cfg     *config.AppConfig
	sources models.SourceList
	text    service.ITextService
	loader  *catalog.Loader
	kv      storage.KVStore
	persist *storage.Adapter
	metrics *metrics.SessionMetrics
	log     logger.Logger

	store      *catalog.Store
	engine     *search.Engine
	cart       *cart.Cart
	columns    *columns.Projector
	comparator *compare.Comparator
	exporter   *export.Exporter

	loadErr     error
	lastQuery   string
	lastField   string
	lastResults []models.Record
}

// SourcesFromConfig keeps the configured order as the canonical source order.
func SourcesFromConfig(cfg *config.AppConfig) models.SourceList {
	list := make(models.SourceList, 0, len(cfg.Sources))
	for i, s := range cfg.Sources {
		list = append(list, models.Source{
			ID:       models.SourceID(s.ID),
			Name:     s.Name,
			Location: s.Location,
			Rank:     i,
		})
	}
	return list
}

func New(cfg *config.AppConfig, f fetcher.Fetcher, kv storage.KVStore, log logger.Logger) *App {
	text := service.NewTextService()

	var limiter *rate.Limiter
	if cfg.Loader.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Loader.RequestsPerSecond), max(cfg.Loader.Burst, 1))
	}

	mws := []middleware.Middleware{middleware.Logging(log)}
	if cfg.Loader.Timeout > 0 {
		mws = append(mws, middleware.Timeout(cfg.Loader.Timeout))
	}
	f = middleware.Chain(f, mws...)

	a := &App{
		cfg:     cfg,
		sources: SourcesFromConfig(cfg),
		text:    text,
		loader:  catalog.NewLoader(f, catalog.NewDecoder(cfg.Fields, text), limiter, log),
		kv:      kv,
		metrics: &metrics.SessionMetrics{},
		log:     log,
	}
	a.persist = storage.NewAdapter(kv, storage.Keys{
		Cart:    cfg.Storage.CartKey,
		Columns: cfg.Storage.ColumnsKey,
	}, cfg.Fields, text)
	a.exporter = export.NewExporter(cfg.Export.OutputDir, cfg.Export.SheetName, log)
	return a
}

// Load fetches every catalog and restores the persisted cart and columns.
// Every source starts enabled. A failure is terminal for the App.
func (a *App) Load(ctx context.Context) error {
	a.log.Log("Loading %d catalogs", len(a.sources))
	store, err := a.loader.Load(ctx, a.sources)
	if err != nil {
		a.loadErr = err
		a.log.Error("%s %v", msgLoadFailed, err)
		return err
	}

	a.store = store
	a.engine = search.NewEngine(a.text, a.cfg.Fields.Code, store.Fields())
	a.comparator = compare.NewComparator(store)
	persister := &countingPersister{Adapter: a.persist, metrics: a.metrics}
	a.cart = cart.NewCart(store, persister, a.log)
	a.columns = columns.NewProjector(store.Fields(), a.cfg.Fields.DefaultColumns, persister, a.log)

	ids := make([]models.SourceID, 0, len(a.sources))
	for _, s := range a.sources {
		ids = append(ids, s.ID)
	}
	if err := store.SetEnabledSources(ids...); err != nil {
		return err
	}

	a.restore()
	return nil
}

func (a *App) restore() {
	entries, err := a.persist.LoadCart()
	if err != nil {
		a.log.Error("Persisted order list ignored: %v", err)
	}
	a.cart.Restore(entries)

	fields, ok, err := a.persist.LoadColumns()
	switch {
	case err != nil:
		a.log.Error("Persisted columns ignored: %v", err)
	case ok:
		a.columns.Restore(fields)
	}
	a.log.Log("Restored %d cart entries, columns %v", a.cart.Len(), a.columns.VisibleFields())
}

func (a *App) ready() error {
	if a.loadErr != nil {
		return errors.Wrap(models.ErrNotLoaded, a.loadErr.Error())
	}
	if a.store == nil {
		return models.ErrNotLoaded
	}
	return nil
}

func (a *App) Sources() models.SourceList { return a.sources }

// SetEnabledSources rebuilds the view and drops the last results.
func (a *App) SetEnabledSources(ids ...models.SourceID) error {
	if err := a.ready(); err != nil {
		return err
	}
	if err := a.store.SetEnabledSources(ids...); err != nil {
		return err
	}
	a.lastQuery, a.lastField, a.lastResults = "", "", nil
	return nil
}

func (a *App) EnabledSources() []models.SourceID {
	if a.store == nil {
		return nil
	}
	return a.store.EnabledSources()
}

// Search runs over the current view and replaces the last results.
func (a *App) Search(query, field string) ([]models.Record, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	if field == "" {
		field = search.AllFields
	}
	a.metrics.Searches.Add(1)
	a.lastQuery, a.lastField = query, field
	a.lastResults = a.engine.Collect(a.store.CurrentView(), query, field)
	return slices.Clone(a.lastResults), nil
}

func (a *App) LastResults() []models.Record {
	return slices.Clone(a.lastResults)
}

// Highlight decorates value with the last query's matches.
func (a *App) Highlight(value, open, close string) string {
	if a.engine == nil {
		return value
	}
	return a.engine.Highlight(value, a.lastQuery, a.lastField, open, close)
}

// SearchFields are the choices offered for the field selector, "all" first.
func (a *App) SearchFields() []string {
	if a.store == nil {
		return nil
	}
	return append([]string{search.AllFields}, a.store.Fields()...)
}

// ProductCountLabel counts the records of the current view: "1 produit", "12 produits".
func (a *App) ProductCountLabel() string {
	n := 0
	if a.store != nil {
		n = len(a.store.CurrentView())
	}
	if n == 1 {
		return "1 produit"
	}
	return fmt.Sprintf("%d produits", n)
}

// Placeholder names the enabled sources the search runs over.
func (a *App) Placeholder() string {
	enabled := make(map[models.SourceID]bool)
	for _, id := range a.EnabledSources() {
		enabled[id] = true
	}
	names := a.sources.Names(enabled)
	if len(names) == 0 {
		return fmt.Sprintf(msgPlaceholder, msgNoSource)
	}
	return fmt.Sprintf(msgPlaceholder, strings.Join(names, ", "))
}

func (a *App) sourceName(id models.SourceID) string {
	if s, ok := a.sources.Lookup(id); ok {
		return s.Name
	}
	return string(id)
}

// Add puts a record in the cart. A duplicate gives a warning notice and ErrDuplicateCartEntry.
func (a *App) Add(code string, source models.SourceID) (Notice, error) {
	if err := a.ready(); err != nil {
		return Notice{Kind: NoticeError, Message: msgLoadFailed}, err
	}
	err := a.cart.Add(code, source)
	switch {
	case err == nil:
		a.metrics.Added.Add(1)
		return Notice{Kind: NoticeSuccess, Message: msgAdded}, nil
	case errors.Is(err, models.ErrDuplicateCartEntry):
		a.metrics.Duplicates.Add(1)
		return Notice{Kind: NoticeWarning, Message: fmt.Sprintf(msgAlreadyAdded, a.sourceName(source))}, err
	default:
		return Notice{Kind: NoticeError, Message: err.Error()}, err
	}
}

// Remove gives no notice when nothing was removed.
func (a *App) Remove(code string, source models.SourceID) (Notice, bool, error) {
	if err := a.ready(); err != nil {
		return Notice{}, false, err
	}
	if !a.cart.Remove(code, source) {
		return Notice{}, false, nil
	}
	a.metrics.Removed.Add(1)
	return Notice{Kind: NoticeInfo, Message: msgRemoved}, true, nil
}

// SetQuantity removes the entry when raw is not an integer in [1, cart.MaxQuantity].
func (a *App) SetQuantity(code string, source models.SourceID, raw string) (bool, error) {
	if err := a.ready(); err != nil {
		return false, err
	}
	if _, ok := cart.ParseQuantity(raw); !ok {
		removed := a.cart.Remove(code, source)
		if removed {
			a.metrics.Removed.Add(1)
		}
		return removed, nil
	}
	updated, err := a.cart.SetQuantity(code, source, raw)
	if err != nil {
		return updated, err
	}
	if updated {
		a.metrics.QuantityUpdates.Add(1)
	}
	return updated, nil
}

func (a *App) Cart() []models.CartEntry {
	if a.cart == nil {
		return nil
	}
	return a.cart.Entries()
}

func (a *App) CartCount() int {
	if a.cart == nil {
		return 0
	}
	return a.cart.Len()
}

func (a *App) InCart(code string, source models.SourceID) bool {
	return a.cart != nil && a.cart.Contains(code, source)
}

func (a *App) Clear() error {
	if err := a.ready(); err != nil {
		return err
	}
	a.cart.Clear()
	return nil
}

// Reset empties the cart, restores the default columns and erases both persisted keys.
func (a *App) Reset() error {
	if err := a.ready(); err != nil {
		return err
	}
	a.cart.Clear()
	a.columns.Reset()
	if err := a.persist.Reset(); err != nil {
		a.log.Error("Reset persisted state: %v", err)
		return err
	}
	return nil
}

func (a *App) ToggleColumn(field string, visible bool) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.columns.Toggle(field, visible)
}

func (a *App) VisibleFields() []string {
	if a.columns == nil {
		return nil
	}
	return a.columns.VisibleFields()
}

func (a *App) AllFields() []string {
	if a.store == nil {
		return nil
	}
	return a.store.Fields()
}

func (a *App) Compare(code string) ([]compare.Comparison, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.comparator.Comparisons(code), nil
}

// Table is the export content computed once for both formats.
func (a *App) Table() (*export.Table, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return export.BuildTable(a.cart.Entries(), a.columns.VisibleFields(), a.sources, a.cfg.Fields.Price)
}

func (a *App) ExportCSV() (string, Notice, error) {
	table, err := a.Table()
	if err != nil {
		return "", Notice{}, err
	}
	path, err := a.exporter.WriteCSV(table)
	if err != nil {
		return "", Notice{Kind: NoticeError, Message: err.Error()}, err
	}
	a.metrics.Exports.Add(1)
	return path, Notice{Kind: NoticeSuccess, Message: msgCSVExported}, nil
}

func (a *App) ExportXLSX() (string, Notice, error) {
	table, err := a.Table()
	if err != nil {
		return "", Notice{}, err
	}
	path, err := a.exporter.WriteXLSX(table)
	if err != nil {
		return "", Notice{Kind: NoticeError, Message: err.Error()}, err
	}
	a.metrics.Exports.Add(1)
	return path, Notice{Kind: NoticeSuccess, Message: msgXLSXExported}, nil
}

func (a *App) Metrics() *metrics.SessionMetrics { return a.metrics }

// Close logs the session counters and closes the storage.
func (a *App) Close() error {
	a.log.Log("Session: %s", a.metrics)
	return a.kv.Close()
}

// countingPersister counts persistence failures; the components only log them.
type countingPersister struct {
	*storage.Adapter
	metrics *metrics.SessionMetrics
}

func (p *countingPersister) SaveCart(entries []models.CartEntry) error {
	return p.count(p.Adapter.SaveCart(entries))
}

func (p *countingPersister) ClearCart() error {
	return p.count(p.Adapter.ClearCart())
}

func (p *countingPersister) SaveColumns(fields []string) error {
	return p.count(p.Adapter.SaveColumns(fields))
}

func (p *countingPersister) count(err error) error {
	if err != nil {
		p.metrics.PersistFailures.Add(1)
	}
	return err
}
