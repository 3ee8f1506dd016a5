package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/server"
)

func newServeCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST facade",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.NewConfigFromEnv()
			if address != "" {
				cfg.Address = address
			}

			app := fx.New(
				coreModules(!cfg.ServeMetrics),
				fx.Supply(cfg),
				server.FXModule,
			)
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			sig := <-app.Wait()

			stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
			defer cancel()
			if err := app.Stop(stopCtx); err != nil {
				return err
			}
			if sig.ExitCode != 0 {
				os.Exit(sig.ExitCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides SERVER_ADDRESS)")
	return cmd
}
