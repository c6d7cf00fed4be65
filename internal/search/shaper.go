package search

import (
	"math"
	"sort"

	"github.com/itcaat/olxsearch/internal/models"
)

// sortItems orders items in place. Price orders keep priceless items at the
// tail; date and relevance keep upstream order.
func sortItems(items []models.Item, order models.SortOrder) {
	var key func(*models.Item) float64
	var less func(a, b float64) bool

	switch order {
	case models.SortPriceAsc:
		key = priceOr(math.Inf(1))
		less = func(a, b float64) bool { return a < b }
	case models.SortPriceDesc:
		key = priceOr(math.Inf(-1))
		less = func(a, b float64) bool { return a > b }
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(key(&items[i]), key(&items[j]))
	})
}

func priceOr(missing float64) func(*models.Item) float64 {
	return func(it *models.Item) float64 {
		if it.Price == nil {
			return missing
		}
		return *it.Price
	}
}

// shape sorts and truncates items to limit and describes the outcome.
func shape(items []models.Item, limit, maxPages int, order models.SortOrder, run *pageRun) ([]models.Item, models.Pagination) {
	sortItems(items, order)

	truncated := len(items) > limit
	if truncated {
		items = items[:limit]
	}

	return items, models.Pagination{
		Total:        run.Total,
		PageSize:     run.PageSize,
		Limit:        limit,
		MaxPages:     maxPages,
		ResultsLimit: run.ResultsLimit,
		Capped:       truncated || !run.Exhausted,
	}
}
