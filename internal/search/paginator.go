package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/itcaat/olxsearch/internal/fetcher"
	"github.com/itcaat/olxsearch/internal/models"
	"github.com/itcaat/olxsearch/internal/parser"
)

// pageRun is what one scope (or a merge of scopes) produced.
type pageRun struct {
	Region       string
	URL          string
	Items        []models.Item
	Total        int
	PageSize     int
	ResultsLimit int
	Pages        int
	CategoryCode string
	// Exhausted is set when upstream had nothing left to give.
	Exhausted bool
}

// Paginator walks the result pages of a single region/category scope.
type Paginator struct {
	fetcher  fetcher.Fetcher
	baseURL  string
	timeout  time.Duration
	maxPages int
	logger   *slog.Logger
}

// Collect fetches pages one after another until want unique items are held,
// upstream runs out, the page budget is spent or a page adds nothing new.
// Failures on the first page are returned; later failures end the walk and
// keep what was gathered.
func (p *Paginator) Collect(ctx context.Context, page parser.SearchPage, want int) (*pageRun, error) {
	run := &pageRun{Region: page.Region}
	seen := make(map[string]struct{})

	for n := 1; ; n++ {
		page.Page = n
		url := parser.BuildSearchURL(p.baseURL, page)
		if n == 1 {
			run.URL = url
		}

		body, err := p.fetcher.Fetch(ctx, url, p.timeout)
		if err != nil {
			if n == 1 {
				return nil, fmt.Errorf("fetch first page: %w", err)
			}
			p.logger.Warn("page fetch failed, keeping partial results", "page", n, "url", url, "error", err)
			return run, nil
		}

		state := parser.ExtractPageState(body)
		if state == nil {
			if n == 1 {
				return nil, &models.ExtractionError{URL: url, Reason: "page state missing or malformed"}
			}
			p.logger.Warn("page state missing, keeping partial results", "page", n, "url", url)
			return run, nil
		}

		if n == 1 {
			run.Total = state.TotalOfAds
			run.PageSize = state.PageSize
			if run.PageSize <= 0 {
				run.PageSize = len(state.Ads)
			}
			run.CategoryCode = state.SelectedCategoryCode
			run.ResultsLimit = resultsLimit(run.Total, run.PageSize, p.maxPages)
		}

		added := 0
		for _, raw := range state.Ads {
			item := parser.NormalizeListing(raw, p.baseURL)
			if item == nil {
				continue
			}
			if key, ok := item.Key(); ok {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			run.Items = append(run.Items, *item)
			added++
		}
		run.Pages = n

		p.logger.Debug("page collected", "page", n, "added", added, "held", len(run.Items), "total", run.Total)

		switch {
		case added == 0:
			run.Exhausted = true
			return run, nil
		case run.Total > 0 && n*run.PageSize >= run.Total:
			run.Exhausted = true
			return run, nil
		case len(run.Items) >= want:
			return run, nil
		case n >= p.maxPages:
			return run, nil
		}
	}
}

// resultsLimit is how many results upstream can serve within the page budget.
func resultsLimit(total, pageSize, maxPages int) int {
	budget := saturatingMul(pageSize, maxPages)
	if total > 0 && total < budget {
		return total
	}
	return budget
}
