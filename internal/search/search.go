// Package search runs the listing pipeline: pagination, region fan-out,
// strict matching, sorting and capping, then optional detail enrichment.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/itcaat/olxsearch/internal/fetcher"
	"github.com/itcaat/olxsearch/internal/logging"
	"github.com/itcaat/olxsearch/internal/models"
	"github.com/itcaat/olxsearch/internal/parser"
)

// strictOverfetch widens the per-scope target when strict filtering will
// discard part of what is fetched.
const strictOverfetch = 3

// Options wires a Service.
type Options struct {
	Fetcher fetcher.Fetcher
	// BaseURL overrides the marketplace origin.
	BaseURL string
	Logger  *slog.Logger
}

// Service is the entry point used by the CLI.
type Service struct {
	fetcher fetcher.Fetcher
	baseURL string
	logger  *slog.Logger
}

// New builds a Service. A PageFetcher with default options is used when
// opts.Fetcher is nil.
func New(opts Options) *Service {
	logger := logging.OrDiscard(opts.Logger)
	f := opts.Fetcher
	if f == nil {
		f = fetcher.New(fetcher.Options{Logger: logger.With("component", "fetcher")})
	}
	base := opts.BaseURL
	if base == "" {
		base = parser.BaseURL
	}
	return &Service{fetcher: f, baseURL: base, logger: logger}
}

// Search runs the whole pipeline for req.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	req, category, err := Validate(req)
	if err != nil {
		return nil, err
	}

	searchID := uuid.NewString()
	logger := s.logger.With("search_id", searchID)
	logger.Info("search started", "query", req.Query, "regions", req.Regions, "category", req.Category, "limit", req.Limit)

	want := req.Limit
	if req.Strict {
		want = saturatingMul(req.Limit, strictOverfetch)
	}

	paginator := &Paginator{
		fetcher:  s.fetcher,
		baseURL:  s.baseURL,
		timeout:  req.Timeout,
		maxPages: req.MaxPages,
		logger:   logger.With("component", "paginator"),
	}
	page := parser.SearchPage{Query: req.Query, Category: req.Category, Sort: req.Sort}

	var (
		run  *pageRun
		urls []string
	)
	if len(req.Regions) >= 2 {
		agg := &RegionAggregator{paginator: paginator, logger: logger.With("component", "aggregator")}
		run, urls, err = agg.Collect(ctx, page, req.Regions, want)
	} else {
		if len(req.Regions) == 1 {
			page.Region = req.Regions[0]
		}
		run, err = paginator.Collect(ctx, page, want)
		if run != nil {
			urls = []string{run.URL}
		}
	}
	if err != nil {
		logger.Error("search failed", "error", err)
		return nil, fmt.Errorf("search %q: %w", req.Query, err)
	}

	items := run.Items
	if req.Strict {
		matcher := NewMatcher(req.Query)
		before := len(items)
		items = matcher.Filter(items)
		logger.Debug("strict filter applied", "tokens", matcher.Tokens(), "before", before, "after", len(items))
	}

	items, pagination := shape(items, req.Limit, req.MaxPages, req.Sort, run)

	if req.Details {
		enricher := &DetailEnricher{
			fetcher: s.fetcher,
			timeout: req.Timeout,
			logger:  logger.With("component", "enricher"),
		}
		enricher.Enrich(ctx, items, req.Concurrency)
	}

	logger.Info("search finished", "items", len(items), "total", pagination.Total, "capped", pagination.Capped)

	return &models.SearchResult{
		Items:      items,
		Query:      echo(req, category, searchID, urls),
		Pagination: pagination,
	}, nil
}

// SearchRaw fetches only the first page of every scope and returns the
// undecoded page state. With a single scope any failure is returned; with
// several, failures are reported per scope.
func (s *Service) SearchRaw(ctx context.Context, req models.SearchRequest) (*models.RawSearchResult, error) {
	req, category, err := Validate(req)
	if err != nil {
		return nil, err
	}

	searchID := uuid.NewString()
	logger := s.logger.With("search_id", searchID)

	regions := req.Regions
	if len(regions) == 0 {
		regions = []string{""}
	}

	scopes := make([]models.RawScope, len(regions))
	errs := make([]error, len(regions))
	var wg sync.WaitGroup
	for i, region := range regions {
		wg.Add(1)
		go func(i int, region string) {
			defer wg.Done()
			scopes[i], errs[i] = s.rawScope(ctx, req, region)
		}(i, region)
	}
	wg.Wait()

	urls := make([]string, 0, len(scopes))
	for i := range scopes {
		urls = append(urls, scopes[i].URL)
		if errs[i] == nil {
			continue
		}
		if len(regions) == 1 {
			return nil, fmt.Errorf("raw search %q: %w", req.Query, errs[i])
		}
		logger.Warn("raw scope failed", "region", regions[i], "error", errs[i])
		scopes[i].Error = errs[i].Error()
	}

	return &models.RawSearchResult{
		Query:  echo(req, category, searchID, urls),
		Scopes: scopes,
	}, nil
}

func (s *Service) rawScope(ctx context.Context, req models.SearchRequest, region string) (models.RawScope, error) {
	url := parser.BuildSearchURL(s.baseURL, parser.SearchPage{
		Query:    req.Query,
		Category: req.Category,
		Region:   region,
		Page:     1,
		Sort:     req.Sort,
	})
	scope := models.RawScope{Region: region, URL: url}

	body, err := s.fetcher.Fetch(ctx, url, req.Timeout)
	if err != nil {
		return scope, err
	}
	state := parser.ExtractPageState(body)
	if state == nil {
		return scope, &models.ExtractionError{URL: url, Reason: "page state missing or malformed"}
	}
	scope.PageProps = state.Raw
	return scope, nil
}

// saturatingMul returns a*b for non-negative operands, clamped to math.MaxInt.
func saturatingMul(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

func echo(req models.SearchRequest, category models.Category, searchID string, urls []string) models.QueryEcho {
	e := models.QueryEcho{
		SearchRequest: req,
		Timeout:       req.Timeout.String(),
		CategoryName:  category.Name,
		URLs:          urls,
		SearchID:      searchID,
	}
	if len(urls) > 0 {
		e.URL = urls[0]
	}
	return e
}

// Validate normalizes req and rejects unknown or non-positive options.
// The resolved category is zero when none was requested.
func Validate(req models.SearchRequest) (models.SearchRequest, models.Category, error) {
	req.Query = strings.Join(strings.Fields(req.Query), " ")

	positives := []struct {
		field string
		value int64
	}{
		{"limit", int64(req.Limit)},
		{"timeout", int64(req.Timeout)},
		{"concurrency", int64(req.Concurrency)},
		{"maxPages", int64(req.MaxPages)},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return req, models.Category{}, &models.ValidationError{
				Field:  p.field,
				Value:  fmt.Sprint(p.value),
				Reason: "must be positive",
			}
		}
	}

	if req.Sort == "" {
		req.Sort = models.SortRelevance
	}
	if !req.Sort.Valid() {
		allowed := make([]string, 0, len(models.SortOrders))
		for _, o := range models.SortOrders {
			allowed = append(allowed, string(o))
		}
		return req, models.Category{}, &models.ValidationError{
			Field:   "sort",
			Value:   string(req.Sort),
			Reason:  "unknown sort order",
			Allowed: allowed,
		}
	}

	var category models.Category
	if strings.TrimSpace(req.Category) != "" {
		c, ok := parser.LookupCategory(req.Category)
		if !ok {
			return req, models.Category{}, &models.ValidationError{
				Field:   "category",
				Value:   req.Category,
				Reason:  "unknown category",
				Allowed: parser.CategorySlugs(),
			}
		}
		category = c
		req.Category = c.Slug
	} else {
		req.Category = ""
	}

	var regions []string
	seen := make(map[string]struct{}, len(req.Regions))
	for _, code := range req.Regions {
		r, ok := parser.LookupRegion(code)
		if !ok {
			return req, models.Category{}, &models.ValidationError{
				Field:   "region",
				Value:   code,
				Reason:  "unknown region code",
				Allowed: parser.RegionCodes(),
			}
		}
		if _, dup := seen[r.Code]; dup {
			continue
		}
		seen[r.Code] = struct{}{}
		regions = append(regions, r.Code)
	}
	req.Regions = regions

	return req, category, nil
}
