package main

import (
	"github.com/spf13/cobra"

	"songbook/internal/build"
	"songbook/internal/index"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the website once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := index.Open(index.OpenOptions{Path: indexPath(cfg)})
		if err != nil {
			return err
		}
		defer st.Close()

		b := &build.Builder{Cfg: cfg, Store: st, Log: logger}
		res, err := b.Run(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("build complete",
			"songs", res.Songs,
			"categories", res.Categories,
			"generated", len(res.Generated),
			"copied", len(res.Copied),
			"deleted", res.Deleted,
		)
		return nil
	},
}
