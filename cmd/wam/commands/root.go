// Package commands implements the CLI commands for wam.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/wam/internal/app"
	"go.trai.ch/wam/internal/build"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/zerr"
)

// LogFormatEnv selects the log format when --log-format is not given.
const LogFormatEnv = "WAM_LOG_FORMAT"

// CLI represents the command line interface for wam.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Install(ctx context.Context, opts app.InstallOptions) error
	List(ctx context.Context, opts app.ListOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// jsonSwitch is implemented by loggers that can change their output format.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app and logger.
// --log-format applies to loggers that implement SetJSON; a nil logger is allowed.
func New(a Application, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "wam",
		Short:         "Keep World of Warcraft addons in sync with a declared list",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().String("log-format", "", "Log format: pretty or json (env "+LogFormatEnv+")")
	rootCmd.PersistentPreRunE = c.applyLogFormat

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) applyLogFormat(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("log-format")
	if format == "" {
		format = os.Getenv(LogFormatEnv)
	}

	var jsonMode bool
	switch format {
	case "", "pretty":
	case "json":
		jsonMode = true
	default:
		return domain.ConfigError(zerr.With(domain.ErrInvalidLogFormat, "format", format))
	}

	if sw, ok := c.logger.(jsonSwitch); ok {
		sw.SetJSON(jsonMode)
	}
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
