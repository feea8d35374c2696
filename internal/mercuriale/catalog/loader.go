package catalog

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/pkg/business/service/fetcher"
	"gomercuriale/pkg/logger"
)

// Loader fetches every source in parallel. One failure fails the whole load.
type Loader struct {
	fetcher fetcher.Fetcher
	decoder *Decoder
	limiter *rate.Limiter
	log     logger.Logger
}

func NewLoader(f fetcher.Fetcher, decoder *Decoder, limiter *rate.Limiter, log logger.Logger) *Loader {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Loader{
		fetcher: f,
		decoder: decoder,
		limiter: limiter,
		log:     log,
	}
}

type loaded struct {
	records []models.Record
	keys    []string
}

// Load returns a Store over all sources, every source disabled except as set later.
func (l *Loader) Load(ctx context.Context, sources models.SourceList) (*Store, error) {
	results := make([]loaded, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := l.limiter.Wait(gctx); err != nil {
				return errors.Wrapf(err, "source %s", src.ID)
			}
			records, keys, err := l.loadOne(gctx, src)
			if err != nil {
				l.log.Error("Failed to load %s (%s): %v", src.ID, src.Location, err)
				return errors.Wrapf(err, "source %s", src.ID)
			}
			results[i] = loaded{records: records, keys: keys}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(models.ErrCatalogLoad, err.Error())
	}

	catalogs := make(map[models.SourceID][]models.Record, len(sources))
	var fields []string
	for i, src := range sources {
		catalogs[src.ID] = results[i].records
		if fields == nil && len(results[i].keys) > 0 {
			fields = results[i].keys
		}
		l.log.Log("Loaded %d records from %s", len(results[i].records), src.ID)
	}
	l.checkSchema(sources, results, fields)

	return NewStore(sources, catalogs, fields), nil
}

func (l *Loader) loadOne(ctx context.Context, src models.Source) ([]models.Record, []string, error) {
	body, err := l.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()
	return l.decoder.Decode(body, src.ID)
}

// checkSchema only warns: every catalog is assumed to share the first one's fields.
func (l *Loader) checkSchema(sources models.SourceList, results []loaded, fields []string) {
	for i, src := range sources {
		if len(results[i].keys) == 0 {
			continue
		}
		have := make(map[string]bool, len(results[i].keys))
		for _, k := range results[i].keys {
			have[k] = true
		}
		for _, f := range fields {
			if !have[f] {
				l.log.Error("Source %s has no field %q; its column will stay blank", src.ID, f)
			}
		}
	}
}
