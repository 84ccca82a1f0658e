package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srodi/hotspot-report/pkg/server"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking tools over HTTP and WebSocket",
		Long: "Serve the ranking tools over HTTP and WebSocket. Document paths are\n" +
			"confined to the base directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts, true)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				rt.cfg.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(rt.registry, server.NewMetrics(), rt.log, version)
			return srv.Run(ctx, rt.cfg.Listen, rt.cfg.ReadTimeout, rt.cfg.WriteTimeout)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to listen on (default from config, 127.0.0.1:8080)")
	return cmd
}
