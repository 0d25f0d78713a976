package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Thanhnebe/hoainamprj/internal/app"
	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// cli carries state shared by the commands of one invocation.
type cli struct {
	lang      string
	container *app.Container
}

// app builds the service container on first use so commands like version
// work without any configuration.
func (c *cli) app() (*app.Container, error) {
	if c.container != nil {
		return c.container, nil
	}
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if c.lang != "" {
		cfg.Lang = c.lang
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	c.container = app.New(cfg, logger, afero.NewOsFs())
	return c.container, nil
}

// run adapts a command body that needs the container into a cobra RunE.
func (c *cli) run(fn func(cmd *cobra.Command, a *app.Container) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := c.app()
		if err != nil {
			return err
		}
		defer c.close()
		return fn(cmd, a)
	}
}

func (c *cli) close() {
	if c.container != nil {
		c.container.Close()
		c.container = nil
	}
}

// NewRootCmd assembles the shopctl command tree.
func NewRootCmd() *cobra.Command {
	state := &cli{}
	rootCmd := &cobra.Command{
		Use:   "shopctl",
		Short: "Shop client command line",
		Long: `shopctl drives the shop client from a terminal: it stores the login
record, shows the home feed and runs the profile edit workflow against the
configured backend.

Use "shopctl [command] --help" for more information about a command.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&state.lang, "lang", "", "message language (vi or en), overrides SHOP_LANG")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(state),
		newLogoutCmd(state),
		newHomeCmd(state),
		newProfileCmd(state),
		newTopicsCmd(),
	)
	return rootCmd
}

// Execute executes the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
