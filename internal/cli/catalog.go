package cli

import (
	"github.com/spf13/cobra"

	"github.com/itcaat/olxsearch/internal/parser"
)

var categoriesFlat bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List category slugs accepted by --category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if categoriesFlat {
			return writeJSON(cmd, parser.CategorySlugs())
		}
		return writeJSON(cmd, parser.GetCategories())
	},
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List state codes accepted by --region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeJSON(cmd, parser.GetRegions())
	},
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesFlat, "flat", false, "print only the slugs")
	rootCmd.AddCommand(categoriesCmd, regionsCmd)
}
