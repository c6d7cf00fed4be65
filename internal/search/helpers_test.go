package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itcaat/olxsearch/internal/models"
	"github.com/itcaat/olxsearch/internal/parser"
)

const testBase = "http://olx.test"

// fakeFetcher serves canned bodies by URL; unknown URLs fail like a 404.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: make(map[string]string)}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return "", &models.TransportError{URL: url, StatusCode: 404, Err: errors.New("not found")}
	}
	return body, nil
}

func (f *fakeFetcher) set(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = body
}

func (f *fakeFetcher) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func ad(id int, title, price string) map[string]any {
	return map[string]any{
		"listId":  id,
		"subject": title,
		"price":   price,
		"url":     fmt.Sprintf("%s/d/anuncio-%d", testBase, id),
	}
}

func adRange(from, to int) []map[string]any {
	var ads []map[string]any
	for id := from; id <= to; id++ {
		ads = append(ads, ad(id, fmt.Sprintf("Anúncio %d", id), "R$ 100"))
	}
	return ads
}

func searchDoc(t *testing.T, total, pageSize int, ads []map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"props": map[string]any{
			"pageProps": map[string]any{
				"ads":        ads,
				"totalOfAds": total,
				"pageSize":   pageSize,
			},
		},
	})
	require.NoError(t, err)
	return `<html><body><script id="__NEXT_DATA__" type="application/json">` + string(payload) + `</script></body></html>`
}

func pageURL(query, region string, n int) string {
	return parser.BuildSearchURL(testBase, parser.SearchPage{Query: query, Region: region, Page: n})
}

func newTestService(f *fakeFetcher) *Service {
	return New(Options{Fetcher: f, BaseURL: testBase})
}

func ids(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.ID == nil {
			out = append(out, "")
			continue
		}
		out = append(out, *it.ID)
	}
	return out
}

func item(id string, price *float64) models.Item {
	return models.Item{ID: &id, Title: "item " + id, Price: price}
}

func price(v float64) *float64 { return &v }

// gaugeFetcher holds every detail fetch for a moment and records how many
// were in flight at once and how many times the count rose from zero.
type gaugeFetcher struct {
	*fakeFetcher
	hold time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	waves    int
}

func (g *gaugeFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if !strings.Contains(url, "/d/") {
		return g.fakeFetcher.Fetch(ctx, url, timeout)
	}

	g.mu.Lock()
	if g.inFlight == 0 {
		g.waves++
	}
	g.inFlight++
	if g.inFlight > g.peak {
		g.peak = g.inFlight
	}
	g.mu.Unlock()

	time.Sleep(g.hold)

	g.mu.Lock()
	g.inFlight--
	g.mu.Unlock()
	return g.fakeFetcher.Fetch(ctx, url, timeout)
}
