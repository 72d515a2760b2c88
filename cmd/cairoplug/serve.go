package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cairoplug/internal/hostbridge"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer msgpack expansion requests from the host on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := prepare(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = hostbridge.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), env.suite, hostbridge.ServeOptions{
			Heartbeat:   env.heartbeat,
			FailureDump: cmd.ErrOrStderr(),
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
