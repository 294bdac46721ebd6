package main

import (
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-outline/internal/metrics"
	"github.com/thywilljoshua/pdf-outline/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /v1/outline, /healthz and /metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, closeFn, err := a.convertConfig(cmd.Context(), metrics.New())
			if err != nil {
				return err
			}
			defer closeFn()

			srv := server.New(conf, server.Options{
				MaxBodySize: a.cfg.Server.MaxBodySize,
				Timeout:     a.cfg.Server.Timeout,
			})
			return srv.ListenAndServe(cmd.Context(), a.cfg.Server.Address)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	a.bind("server.address", cmd.Flags().Lookup("addr"))
	return cmd
}
