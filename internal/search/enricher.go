package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/itcaat/olxsearch/internal/fetcher"
	"github.com/itcaat/olxsearch/internal/models"
	"github.com/itcaat/olxsearch/internal/parser"
)

// DetailEnricher fills description, images, attributes and seller name from
// listing pages.
type DetailEnricher struct {
	fetcher fetcher.Fetcher
	timeout time.Duration
	logger  *slog.Logger
}

type detailOutcome struct {
	index  int
	detail *parser.Detail
	err    error
}

// Enrich visits the permalink of every item in batches of concurrency pages.
// Pages in a batch are fetched together; the next batch starts when the
// previous one has settled. A failed page leaves its item as it was. It
// returns how many items were enriched.
func (e *DetailEnricher) Enrich(ctx context.Context, items []models.Item, concurrency int) int {
	if concurrency < 1 {
		concurrency = 1
	}

	var targets []int
	for i := range items {
		if items[i].Permalink != nil && *items[i].Permalink != "" {
			targets = append(targets, i)
		}
	}

	enriched := 0
	for start := 0; start < len(targets); start += concurrency {
		end := start + concurrency
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[start:end]

		outcomes := make([]detailOutcome, len(batch))
		var wg sync.WaitGroup
		for slot, idx := range batch {
			wg.Add(1)
			go func(slot, idx int, url string) {
				defer wg.Done()
				outcomes[slot] = e.fetchDetail(ctx, idx, url)
			}(slot, idx, *items[idx].Permalink)
		}
		wg.Wait()

		for _, out := range outcomes {
			if out.err != nil {
				e.logger.Debug("detail skipped", "url", *items[out.index].Permalink, "error", out.err)
				continue
			}
			out.detail.Apply(&items[out.index])
			enriched++
		}
	}

	e.logger.Debug("enrichment finished", "candidates", len(targets), "enriched", enriched)
	return enriched
}

func (e *DetailEnricher) fetchDetail(ctx context.Context, idx int, url string) detailOutcome {
	body, err := e.fetcher.Fetch(ctx, url, e.timeout)
	if err != nil {
		return detailOutcome{index: idx, err: err}
	}
	detail, err := parser.ParseDetail(body, url)
	if err != nil {
		return detailOutcome{index: idx, err: err}
	}
	return detailOutcome{index: idx, detail: detail}
}
