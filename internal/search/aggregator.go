package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/itcaat/olxsearch/internal/models"
	"github.com/itcaat/olxsearch/internal/parser"
)

// RegionAggregator runs one Paginator per region and merges the results.
type RegionAggregator struct {
	paginator *Paginator
	logger    *slog.Logger
}

type regionOutcome struct {
	run *pageRun
	err error
}

// Collect queries every region concurrently. A failing region contributes
// nothing; the call fails only when all of them do. urls lists the first-page
// URL of every region in request order.
func (a *RegionAggregator) Collect(ctx context.Context, page parser.SearchPage, regions []string, want int) (run *pageRun, urls []string, err error) {
	outcomes := make([]regionOutcome, len(regions))

	var wg sync.WaitGroup
	for i, region := range regions {
		wg.Add(1)
		go func(i int, region string) {
			defer wg.Done()
			scoped := page
			scoped.Region = region
			r, err := a.paginator.Collect(ctx, scoped, want)
			outcomes[i] = regionOutcome{run: r, err: err}
		}(i, region)
	}
	wg.Wait()

	merged := &pageRun{Exhausted: true}
	streams := make([][]models.Item, 0, len(regions))
	var errs []error

	for i, out := range outcomes {
		region := regions[i]
		if out.err != nil {
			a.logger.Warn("region failed", "region", region, "error", out.err)
			errs = append(errs, fmt.Errorf("region %s: %w", region, out.err))
			merged.Exhausted = false
			scoped := page
			scoped.Region = region
			scoped.Page = 1
			urls = append(urls, parser.BuildSearchURL(a.paginator.baseURL, scoped))
			continue
		}

		r := out.run
		urls = append(urls, r.URL)
		streams = append(streams, r.Items)
		merged.Total += r.Total
		merged.Pages += r.Pages
		merged.Exhausted = merged.Exhausted && r.Exhausted
		if merged.PageSize == 0 && len(r.Items) > 0 {
			merged.PageSize = r.PageSize
			merged.ResultsLimit = r.ResultsLimit
			merged.CategoryCode = r.CategoryCode
		}
		a.logger.Debug("region collected", "region", region, "items", len(r.Items), "total", r.Total)
	}

	if len(errs) == len(regions) {
		return nil, urls, errors.Join(errs...)
	}

	merged.Items = mergeRoundRobin(streams)
	if len(urls) > 0 {
		merged.URL = urls[0]
	}
	return merged, urls, nil
}

// mergeRoundRobin interleaves streams by rank (rank 0 of every stream, then
// rank 1, ...) and drops items whose ID was already taken.
func mergeRoundRobin(streams [][]models.Item) []models.Item {
	longest := 0
	size := 0
	for _, s := range streams {
		size += len(s)
		if len(s) > longest {
			longest = len(s)
		}
	}

	merged := make([]models.Item, 0, size)
	seen := make(map[string]struct{}, size)
	for rank := 0; rank < longest; rank++ {
		for _, s := range streams {
			if rank >= len(s) {
				continue
			}
			item := s[rank]
			if key, ok := item.Key(); ok {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			merged = append(merged, item)
		}
	}
	return merged
}
