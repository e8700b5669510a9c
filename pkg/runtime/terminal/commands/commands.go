package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
)

// BuilderResolver yields the report builder selected by the root flags.
type BuilderResolver func(ctx context.Context) (*reports.Builder, error)

// ReportRenderer turns an assembled report into terminal output.
type ReportRenderer interface {
	Handle(report *domain.Report) error
}

// periodFlags are the date range flags shared by the report commands.
type periodFlags struct {
	days int
	from string
	to   string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.days, "days", reports.DefaultDays, "number of days to cover, ending today")
	cmd.Flags().StringVar(&f.from, "from", "", "period start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "period end date (YYYY-MM-DD)")
}

func (f *periodFlags) resolve() (domain.Period, bool, error) {
	return parsePeriod(f.from, f.to)
}

// parsePeriod resolves from/to flag values into an explicit period. The
// second return is false when neither flag is set and the command should
// fall back to a day count.
func parsePeriod(from, to string) (domain.Period, bool, error) {
	if from == "" && to == "" {
		return domain.Period{}, false, nil
	}
	if from == "" || to == "" {
		return domain.Period{}, false, errors.New("both --from and --to are required for an explicit period")
	}

	start, err := time.Parse(domain.DateLayout, from)
	if err != nil {
		return domain.Period{}, false, fmt.Errorf("invalid --from date %q: expected format YYYY-MM-DD", from)
	}
	end, err := time.Parse(domain.DateLayout, to)
	if err != nil {
		return domain.Period{}, false, fmt.Errorf("invalid --to date %q: expected format YYYY-MM-DD", to)
	}

	period, err := domain.NewPeriod(start, end)
	if err != nil {
		return domain.Period{}, false, err
	}

	return period, true, nil
}
