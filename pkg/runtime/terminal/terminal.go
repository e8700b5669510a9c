package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/traffic-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/traffic-atlas/pkg/services/config"
	"github.com/de-tools/traffic-atlas/pkg/services/query"
	"github.com/de-tools/traffic-atlas/pkg/services/query/ga4"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
	"github.com/de-tools/traffic-atlas/pkg/services/site"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command

	cfgPath    string
	ga4CfgPath string
	siteName   string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
	}
	cli.rootCmd = cli.newRootCmd(opts.Output)

	return cli
}

// Execute runs the CLI
func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(output io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Site traffic reporting tool",
		Long:  "A CLI tool for reporting site traffic from Google Analytics",
	}

	defaultCfgPath := ""
	if usr, err := user.Current(); err == nil {
		defaultCfgPath = fmt.Sprintf("%s/.trafficatlas.cfg", usr.HomeDir)
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", defaultCfgPath,
		"Path to the site registry file (default is $HOME/.trafficatlas.cfg)")
	cmd.PersistentFlags().StringVarP(&cli.siteName, "site", "s", "",
		"Site name from the registry (optional when only one site is configured)")
	cmd.PersistentFlags().StringVar(&cli.ga4CfgPath, "ga4-config", "",
		"Path to a standalone GA4 config file, bypassing the registry")

	plain := NewReporter(output)

	cmd.AddCommand(commands.NewPageViewsCmd(cli.resolveBuilder, cli.reporter))
	cmd.AddCommand(commands.NewReferrersCmd(cli.resolveBuilder, cli.reporter))
	cmd.AddCommand(commands.NewBrowsersCmd(cli.resolveBuilder, cli.reporter))
	cmd.AddCommand(commands.NewPagesCmd(cli.resolveBuilder, cli.reporter))
	cmd.AddCommand(commands.NewSummaryCmd(cli.resolveBuilder, cli.reporter, plain))
	cmd.AddCommand(commands.NewQueryCmd(cli.resolveBuilder, cli.reporter))

	return cmd
}

// resolveBuilder yields the report builder selected by the root flags:
// a standalone GA4 config when --ga4-config is set, otherwise a site
// from the registry.
func (cli *CLI) resolveBuilder(ctx context.Context) (*reports.Builder, error) {
	if cli.ga4CfgPath != "" {
		cfg, err := ga4.LoadConfig(cli.ga4CfgPath)
		if err != nil {
			return nil, err
		}
		executor, err := ga4.NewExecutor(ctx, cfg)
		if err != nil {
			return nil, err
		}
		cached := query.NewCachedExecutor(executor, time.Duration(cfg.CacheMinutes)*time.Minute)
		return reports.NewBuilder(cached, cfg.Property), nil
	}

	registry, err := config.NewRegistry(cli.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open site registry: %w", err)
	}
	explorer := site.NewExplorer(registry)

	name := cli.siteName
	if name == "" {
		sites, err := explorer.ListSites(ctx)
		if err != nil {
			return nil, err
		}
		if len(sites) != 1 {
			return nil, fmt.Errorf("registry has %d sites, select one with --site", len(sites))
		}
		name = sites[0].Name
	}

	return explorer.GetReportBuilder(ctx, domain.Site{Name: name})
}
