package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
)

func NewReferrersCmd(resolve BuilderResolver, reporter *export.Reporter) *cobra.Command {
	var period periodFlags
	var max int

	cmd := &cobra.Command{
		Use:   "referrers",
		Short: "Show the top referrers",
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

			var stats []domain.ReferrerStat
			if ok {
				stats, err = builder.TopReferrersForPeriod(ctx, explicit, max)
			} else {
				stats, err = builder.TopReferrers(ctx, period.days, max)
			}
			if err != nil {
				return err
			}

			return reporter.Referrers(stats)
		},
	}

	period.register(cmd)
	cmd.Flags().IntVar(&max, "max", reports.DefaultReferrerLimit, "maximum number of referrers")

	return cmd
}
