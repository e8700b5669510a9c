package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/traffic-atlas/pkg/services/query"
)

func NewQueryCmd(resolve BuilderResolver, reporter *export.Reporter) *cobra.Command {
	var period periodFlags
	var metrics, dimensions, sort string
	var max int

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a raw metrics query",
		Long:  "Run an arbitrary metrics query against the site and print the result rows unprocessed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			builder, err := resolve(ctx)
			if err != nil {
				return err
			}

			explicit, ok, err := period.resolve()
			if err != nil {
				return err
			}
			if !ok {
				explicit = domain.LastDays(period.days, time.Now())
			}

			opts := map[string]string{}
			if dimensions != "" {
				opts[query.OptDimensions] = dimensions
			}
			if sort != "" {
				opts[query.OptSort] = sort
			}
			if max > 0 {
				opts[query.OptMaxResults] = strconv.Itoa(max)
			}

			result, err := builder.Query(ctx, explicit, metrics, opts)
			if err != nil {
				return err
			}

			return reporter.Rows(result)
		},
	}

	period.register(cmd)
	cmd.Flags().StringVar(&metrics, "metrics", "", "comma-separated metric names")
	cmd.Flags().StringVar(&dimensions, "dimensions", "", "comma-separated dimension names")
	cmd.Flags().StringVar(&sort, "sort", "", "field to sort by, prefix with - for descending")
	cmd.Flags().IntVar(&max, "max", 0, "maximum number of result rows")

	_ = cmd.MarkFlagRequired("metrics")

	return cmd
}
