package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"songbook/internal/index"
	"songbook/internal/serve"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build, serve the site locally, and rebuild on changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagAddr != "" {
			cfg.Serve.Addr = flagAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := index.Open(index.OpenOptions{Path: indexPath(cfg)})
		if err != nil {
			return err
		}
		defer st.Close()

		s := serve.New(cfg, st, logger)
		defer s.Close()

		return s.ListenAndServe(ctx, cfg.Serve.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config, :8080)")
}
