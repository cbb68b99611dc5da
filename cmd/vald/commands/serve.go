package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ampyfin/vald/internal/api"
	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run valuations on a schedule and serve results over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		var hub *api.Hub
		if app.cfg.BroadcastEnabled {
			hub = api.NewHub(app.log)
		}

		server := api.NewServer(
			app.log,
			app.registry,
			func(ctx context.Context) (*contracts.RunResult, error) {
				return app.pipeline.RunOnce(ctx)
			},
			hub,
			":"+app.cfg.Port,
		)

		runner := pipeline.NewRunner(app.log, app.pipeline, app.cfg.RunInterval)
		runner.OnResult = server.Publish

		errCh := make(chan error, 2)
		go func() { errCh <- server.Start(ctx) }()
		go func() { errCh <- runner.Start(ctx) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			// wait for both to wind down
			<-errCh
			<-errCh
			return nil
		}
	},
}
