package terminal

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/statreport/pkg/runtime/terminal/commands"
	"github.com/de-tools/statreport/pkg/runtime/terminal/export"
)

// Connector opens the services for the given config file. It runs once, before the first
// command that needs them.
type Connector func(ctx context.Context, configPath string) (*commands.Services, error)

// CLI represents the command-line interface
type CLI struct {
	connect  Connector
	services *commands.Services
	output   io.Writer
	reporter *Reporter
	table    *export.Reporter
	cfgPath  string
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Connect Connector
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		connect:  opts.Connect,
		output:   opts.Output,
		reporter: NewReporter(opts.Output),
		table:    export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "statreport",
		Short:         "Payroll and tax statistics reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.output)
	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to the YAML config file")

	cmd.AddCommand(commands.NewReportCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewImportCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewStatsCmd(cli.open, cli.table))

	return cmd
}

func (cli *CLI) open(ctx context.Context) (*commands.Services, error) {
	if cli.services != nil {
		return cli.services, nil
	}
	if cli.connect == nil {
		return nil, errors.New("no service connector configured")
	}

	services, err := cli.connect(ctx, cli.cfgPath)
	if err != nil {
		return nil, err
	}
	cli.services = services
	return services, nil
}

func (cli *CLI) close() {
	if cli.services != nil && cli.services.Close != nil {
		_ = cli.services.Close()
	}
}
