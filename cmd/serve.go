package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunestats/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	provider, err := r.Provider()
	if err != nil {
		return err
	}

	state := provider.Start(ctx)
	r.logger.Info("session restored", "state", state)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	return server.Serve(ctx, addr, server.NewRouter(provider, r.logger, r.config.Server), r.logger)
}
