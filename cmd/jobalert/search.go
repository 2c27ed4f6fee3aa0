package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"job-scraping/internal/app"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/salary"
	"job-scraping/internal/service"
	"job-scraping/internal/usecase"

	"github.com/spf13/cobra"
)

// searchCommand runs one aggregation without touching the database or mail.
func searchCommand(c *cli) *cobra.Command {
	var (
		location string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Fetch and print aggregated listings for a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := service.NewAggregator(
				c.cfg.Scraper,
				salary.NewNormalizer(c.cfg.Salary.CurrencySymbol),
				app.NewAdapters(c.cfg.Scraper, c.log),
				c.log.Named("aggregator"),
			)
			listings := agg.Aggregate(cmd.Context(), job.Query{Keyword: args[0], Location: location})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(listings)
			}

			fmt.Fprintln(out, usecase.SearchMessage(len(listings)))
			if len(listings) == 0 {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tTITLE\tCOMPANY\tLOCATION\tSALARY")
			for _, l := range listings {
				sal := ""
				if l.Salary != nil {
					sal = *l.Salary
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.Source, l.Title, l.Company, l.Location, sal)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "location filter; defaults to the configured location")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print listings as JSON")
	return cmd
}
