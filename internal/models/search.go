package models

import (
	"encoding/json"
	"time"
)

// SortOrder selects how results are ordered.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortDate      SortOrder = "date"
)

// SortOrders lists every accepted sort order.
var SortOrders = []SortOrder{SortRelevance, SortPriceAsc, SortPriceDesc, SortDate}

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	for _, o := range SortOrders {
		if s == o {
			return true
		}
	}
	return false
}

const (
	DefaultLimit       = 50
	DefaultTimeout     = 15 * time.Second
	DefaultConcurrency = 5
	DefaultMaxPages    = 20
)

// SearchRequest holds every option of a search run.
// Start from DefaultSearchRequest and override fields; zero or negative
// numeric values are rejected by validation.
type SearchRequest struct {
	Query       string        `json:"query"`
	Limit       int           `json:"limit"`
	Timeout     time.Duration `json:"-"`
	Sort        SortOrder     `json:"sort"`
	Concurrency int           `json:"concurrency"`
	Regions     []string      `json:"regions,omitempty"`
	Category    string        `json:"category,omitempty"`
	Strict      bool          `json:"strict"`
	Details     bool          `json:"details"`
	MaxPages    int           `json:"maxPages"`
}

// DefaultSearchRequest returns a request with documented defaults for query.
func DefaultSearchRequest(query string) SearchRequest {
	return SearchRequest{
		Query:       query,
		Limit:       DefaultLimit,
		Timeout:     DefaultTimeout,
		Sort:        SortRelevance,
		Concurrency: DefaultConcurrency,
		MaxPages:    DefaultMaxPages,
	}
}

// SearchResult is the object handed to the CLI/formatting layer.
type SearchResult struct {
	Items      []Item     `json:"items"`
	Query      QueryEcho  `json:"query"`
	Pagination Pagination `json:"pagination"`
}

// QueryEcho is the normalized request together with the URLs it resolved to.
type QueryEcho struct {
	SearchRequest
	Timeout      string   `json:"timeout"`
	CategoryName string   `json:"categoryName,omitempty"`
	URL          string   `json:"url"`
	URLs         []string `json:"urls,omitempty"`
	SearchID     string   `json:"searchId"`
}

// Pagination describes how much of the upstream result set was consumed.
type Pagination struct {
	Total        int  `json:"total"`
	PageSize     int  `json:"pageSize"`
	Limit        int  `json:"limit"`
	MaxPages     int  `json:"maxPages"`
	ResultsLimit int  `json:"resultsLimit"`
	Capped       bool `json:"capped"`
}

// RawSearchResult carries the undecoded first-page state for every scope.
type RawSearchResult struct {
	Query  QueryEcho  `json:"query"`
	Scopes []RawScope `json:"scopes"`
}

// RawScope is the first page of one region/category scope.
type RawScope struct {
	Region    string          `json:"region,omitempty"`
	URL       string          `json:"url"`
	PageProps json.RawMessage `json:"pageProps,omitempty"`
	Error     string          `json:"error,omitempty"`
}
