package main

import (
	"github.com/Veraticus/gofinances/internal/cli"
	"github.com/Veraticus/gofinances/internal/config"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tax, err := config.LoadTaxonomy()
			if err != nil {
				return err
			}
			return cli.RenderCategories(cmd.OutOrStdout(), tax)
		},
	}
}
