// Package commands implements the CLI commands for weave.
package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"go.trai.ch/weave/internal/build"
	"go.trai.ch/weave/internal/core/domain"
)

// CLI represents the command line interface for weave.
type CLI struct {
	app     Application
	logs    LogConfigurer
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	LoadConfig(path string) error
	Resolve(ctx context.Context, name string) (*domain.CompositionContext, error)
	ResolveAll(ctx context.Context) ([]*domain.CompositionContext, error)
	Order(ctx context.Context, name string) ([]domain.MixinDescriptor, error)
	Flatten(ctx context.Context, name string) (domain.MetadataRecord, error)
	GetArtifact(ctx context.Context, name string) (domain.Artifact, error)
	Export(root string) (int, error)
	ImportFrom(ctx context.Context, root string) (int, error)
	Watch(ctx context.Context, onReload func(error)) error
	Stats() map[domain.GenerationStatus]float64
	MetricsHandler() (http.Handler, bool)
}

// LogConfigurer adjusts the logger from command line flags.
type LogConfigurer interface {
	SetJSON(enabled bool)
	SetLevel(level domain.LogLevel)
}

// Option configures a CLI.
type Option func(*CLI)

// WithLogConfigurer lets the --verbose and --json flags reconfigure logging.
func WithLogConfigurer(l LogConfigurer) Option {
	return func(c *CLI) {
		c.logs = l
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "weave",
		Short:         "Compose types from declared mixins",
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

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to weave.yaml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Log in JSON format")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newOrderCmd())
	rootCmd.AddCommand(c.newFlattenCmd())
	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newImportCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// configure applies the persistent flags before any subcommand runs.
func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	if c.logs != nil {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			c.logs.SetLevel(domain.LogLevelDebug)
		}
		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			c.logs.SetJSON(true)
		}
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return c.app.LoadConfig(path)
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
