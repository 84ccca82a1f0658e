package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srodi/hotspot-report/pkg/stdio"
)

func newStdioCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve the ranking tools to MCP clients on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts, false)
			if err != nil {
				return err
			}
			session, err := stdio.New(rt.registry, rt.log, version)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = session.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
