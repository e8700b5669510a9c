package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
)

func NewBrowsersCmd(resolve BuilderResolver, reporter *export.Reporter) *cobra.Command {
	var period periodFlags
	var max int

	cmd := &cobra.Command{
		Use:   "browsers",
		Short: "Show sessions per browser",
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

			var stats []domain.BrowserStat
			if ok {
				stats, err = builder.TopBrowsersForPeriod(ctx, explicit, max)
			} else {
				stats, err = builder.TopBrowsers(ctx, period.days, max)
			}
			if err != nil {
				return err
			}

			return reporter.Browsers(stats)
		},
	}

	period.register(cmd)
	cmd.Flags().IntVar(&max, "max", reports.DefaultBrowserLimit, "number of browsers to list before folding the rest into Other")

	return cmd
}
