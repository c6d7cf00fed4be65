package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itcaat/olxsearch/internal/models"
)

func TestValidate(t *testing.T) {
	req := models.DefaultSearchRequest("  iphone   13 ")
	req.Regions = []string{"sp", " rj", "SP"}
	req.Category = "/Celulares/"
	req.Sort = ""

	got, category, err := Validate(req)
	require.NoError(t, err)

	assert.Equal(t, "iphone 13", got.Query)
	assert.Equal(t, []string{"SP", "RJ"}, got.Regions)
	assert.Equal(t, "celulares", got.Category)
	assert.Equal(t, "Celulares e telefonia", category.Name)
	assert.Equal(t, models.SortRelevance, got.Sort)
}

func TestValidate_EmptyQueryAllowed(t *testing.T) {
	_, _, err := Validate(models.DefaultSearchRequest(""))
	assert.NoError(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.SearchRequest)
		field   string
		allowed string
	}{
		{"limit", func(r *models.SearchRequest) { r.Limit = 0 }, "limit", ""},
		{"timeout", func(r *models.SearchRequest) { r.Timeout = -time.Second }, "timeout", ""},
		{"concurrency", func(r *models.SearchRequest) { r.Concurrency = -1 }, "concurrency", ""},
		{"max pages", func(r *models.SearchRequest) { r.MaxPages = 0 }, "maxPages", ""},
		{"sort", func(r *models.SearchRequest) { r.Sort = "cheapest" }, "sort", "price_asc"},
		{"category", func(r *models.SearchRequest) { r.Category = "foguetes" }, "category", "autos-e-pecas/motos"},
		{"region", func(r *models.SearchRequest) { r.Regions = []string{"SP", "XX"} }, "region", "MG"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := models.DefaultSearchRequest("x")
			tc.mutate(&req)

			_, _, err := Validate(req)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)

			var ve *models.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			if tc.allowed != "" {
				assert.Contains(t, ve.Allowed, tc.allowed)
			}
		})
	}
}

func TestSearch_ValidationStopsBeforeFetching(t *testing.T) {
	f := newFakeFetcher()
	req := models.DefaultSearchRequest("x")
	req.Sort = "cheapest"

	_, err := newTestService(f).Search(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, f.called())
}
