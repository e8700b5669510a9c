package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
)

func NewPageViewsCmd(resolve BuilderResolver, reporter *export.Reporter) *cobra.Command {
	var period periodFlags
	var groupBy string

	cmd := &cobra.Command{
		Use:   "pageviews",
		Short: "Show visitors and page views over time",
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

			var points []domain.TimeSeriesPoint
			if ok {
				points, err = builder.VisitorsAndPageViewsForPeriod(ctx, explicit, reports.Grouping(groupBy))
			} else {
				points, err = builder.VisitorsAndPageViews(ctx, period.days, reports.Grouping(groupBy))
			}
			if err != nil {
				return err
			}

			return reporter.TimeSeries(points)
		},
	}

	period.register(cmd)
	cmd.Flags().StringVar(&groupBy, "group-by", string(reports.GroupingDate), "time bucket: date or yearMonth")

	return cmd
}
