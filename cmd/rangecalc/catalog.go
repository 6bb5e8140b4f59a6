package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/langchou/evrange/internal/estimator"
	"github.com/langchou/evrange/internal/rating"
	"github.com/langchou/evrange/internal/repository"
)

func newCatalogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Check a catalog seed file and print baseline estimates and ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := repository.LoadCatalogFile(file)
			if err != nil {
				return err
			}
			variants, err := store.List(context.Background())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tVARIANT\tBASELINE\tONE-STOP\tSTARS")
			for _, v := range variants {
				baseline, one, stars := "-", "-", "-"
				if km, ok := estimator.Estimate(v.Profile(), estimator.DefaultInputs()); ok {
					baseline = fmt.Sprintf("%d km", km)
				}
				if m, ok := rating.Calculate(v.Profile()); ok {
					one = fmt.Sprintf("%.1f km", m.OneStopRangeKm)
					stars = fmt.Sprintf("%.1f", m.StarRating)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.DisplayName(), baseline, one, stars)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data/catalog.yaml", "catalog seed file")
	return cmd
}
