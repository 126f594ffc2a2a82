package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/menu-proxy/internal/app"
	"github.com/Sternrassler/menu-proxy/internal/config"
	"github.com/Sternrassler/menu-proxy/internal/tracing"
	"github.com/Sternrassler/menu-proxy/pkg/logging"
)

// Builder creates the wired application from configuration.
type Builder func(ctx context.Context, cfg config.Config) (*app.App, error)

// newRootCmd builds the CLI. Running without a subcommand serves HTTP.
func newRootCmd(build Builder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "menu-proxy",
		Short:         "Cache-fronted menu aggregation proxy",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, build)
		},
	}

	rootCmd.AddCommand(newServeCmd(build))
	rootCmd.AddCommand(newFetchCmd(build))

	return rootCmd
}

func newServeCmd(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, build)
		},
	}
}

func newFetchCmd(build Builder) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "fetch <shopGuid>",
		Short: "Fetch and print the assembled menu for a shop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := setup(ctx, build)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Menus.Menu(ctx, args[0])
			if err != nil {
				return err
			}

			body := res.Body
			if pretty {
				var buf bytes.Buffer
				if err := json.Indent(&buf, body, "", "  "); err != nil {
					return err
				}
				body = buf.Bytes()
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}

func serve(cmd *cobra.Command, build Builder) error {
	ctx := cmd.Context()

	a, err := setup(ctx, build)
	if err != nil {
		return err
	}
	defer a.Close()

	shutdown, err := tracing.Setup(ctx, logging.ServiceName, a.Config.OTelEndpoint)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	a.Logger.Info().
		Int("menu_ttl", a.Config.MenuTTLSeconds).
		Bool("single_flight", a.Config.SingleFlight).
		Str("upstream", a.Config.BaseURL).
		Msg("Starting menu proxy")

	return a.Server.ListenAndServe(ctx, a.Config.Addr())
}

func setup(ctx context.Context, build Builder) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging())
	return build(ctx, cfg)
}
