package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/itcaat/olxsearch/internal/models"
)

var (
	searchLimit       int
	searchTimeout     time.Duration
	searchSort        string
	searchConcurrency int
	searchRegions     []string
	searchCategory    string
	searchStrict      bool
	searchDetails     bool
	searchMaxPages    int
	searchRaw         bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search listings",
	Long: `Fetches result pages until the limit is met or upstream runs out.
With several --region values every state is queried concurrently and the
results are interleaved. --strict keeps only ads containing every query term.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.IntVarP(&searchLimit, "limit", "n", models.DefaultLimit, "maximum number of results")
	f.DurationVar(&searchTimeout, "timeout", models.DefaultTimeout, "per-request timeout")
	f.StringVar(&searchSort, "sort", string(models.SortRelevance), "relevance, price_asc, price_desc or date")
	f.IntVar(&searchConcurrency, "concurrency", models.DefaultConcurrency, "detail pages fetched at once")
	f.StringSliceVarP(&searchRegions, "region", "r", nil, "state code (UF), repeatable")
	f.StringVarP(&searchCategory, "category", "c", "", "category slug, see 'olxsearch categories'")
	f.BoolVar(&searchStrict, "strict", false, "keep only ads that contain every query term")
	f.BoolVar(&searchDetails, "details", false, "fetch description, attributes and seller from each ad page")
	f.IntVar(&searchMaxPages, "max-pages", models.DefaultMaxPages, "page budget per region")
	f.BoolVar(&searchRaw, "raw", false, "print the undecoded first page state instead of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := buildRequest(cmd, strings.Join(args, " "))

	if searchRaw {
		raw, err := searcher().SearchRaw(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeJSON(cmd, raw)
	}

	result, err := searcher().Search(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeJSON(cmd, result)
}

// buildRequest starts from configured defaults and applies the flags the
// user actually set.
func buildRequest(cmd *cobra.Command, query string) models.SearchRequest {
	req := cfg.Request(query)
	flags := cmd.Flags()

	if flags.Changed("limit") {
		req.Limit = searchLimit
	}
	if flags.Changed("timeout") {
		req.Timeout = searchTimeout
	}
	if flags.Changed("sort") {
		req.Sort = models.SortOrder(searchSort)
	}
	if flags.Changed("concurrency") {
		req.Concurrency = searchConcurrency
	}
	if flags.Changed("max-pages") {
		req.MaxPages = searchMaxPages
	}
	req.Regions = searchRegions
	req.Category = searchCategory
	req.Strict = searchStrict
	req.Details = searchDetails
	return req
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
