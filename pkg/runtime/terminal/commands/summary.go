package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
)

func NewSummaryCmd(resolve BuilderResolver, table, plain ReportRenderer) *cobra.Command {
	var from, to string
	var plainOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the full traffic report",
		Long:  "Show visitors, page views, top referrers, browsers and most visited pages for the last year or an explicit period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			builder, err := resolve(ctx)
			if err != nil {
				return err
			}

			period, ok, err := parsePeriod(from, to)
			if err != nil {
				return err
			}

			var report *domain.Report
			if ok {
				report, err = builder.SummaryForPeriod(ctx, period)
			} else {
				report, err = builder.Summary(ctx)
			}
			if err != nil {
				return err
			}

			if plainOutput {
				return plain.Handle(report)
			}

			return table.Handle(report)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "period start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "period end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&plainOutput, "plain", false, "render as a flat list instead of tables")

	return cmd
}
