package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
)

func NewPagesCmd(resolve BuilderResolver, reporter *export.Reporter) *cobra.Command {
	var period periodFlags
	var max int

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Show the most visited pages",
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

			var stats []domain.PageStat
			if ok {
				stats, err = builder.MostVisitedPagesForPeriod(ctx, explicit, max)
			} else {
				stats, err = builder.MostVisitedPages(ctx, period.days, max)
			}
			if err != nil {
				return err
			}

			return reporter.Pages(stats)
		},
	}

	period.register(cmd)
	cmd.Flags().IntVar(&max, "max", reports.DefaultPageLimit, "maximum number of pages")

	return cmd
}
