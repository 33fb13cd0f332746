package main

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"songbook/internal/domain/config"
	domainerr "songbook/internal/domain/errors"
)

var version = "0.1"

var (
	flagSource      string
	flagDestination string
	flagKeep        []string
	flagQuiet       bool
	flagVerbose     int

	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "songbook",
	Short:         "Statically generates a songbook website from tagged song lyric files",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.WarnLevel
		switch {
		case flagQuiet:
			level = log.ErrorLevel
		case flagVerbose == 1:
			level = log.InfoLevel
		case flagVerbose >= 2:
			level = log.DebugLevel
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: false,
			Level:           level,
		})
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagSource, "source", ".", "directory containing songs, templates, etc.")
	pf.StringVar(&flagDestination, "destination", "", "directory in which to generate the website (default: <source>/site)")
	pf.StringArrayVar(&flagKeep, "keep", nil, "paths relative to the destination that shouldn't be cleared")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-critical warnings")
	pf.CountVarP(&flagVerbose, "verbose", "v", "output debugging messages (repeat for more)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig 读 songbook.yaml，命令行参数覆盖文件里的值。
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(filepath.Join(flagSource, "songbook.yaml"))
	if err != nil {
		return cfg, err
	}
	cfg.Build.SourceDir = flagSource
	if flagDestination != "" {
		cfg.Build.DestinationDir = flagDestination
	}
	cfg.Build.Keep = append(cfg.Build.Keep, flagKeep...)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func indexPath(cfg config.Config) string {
	return filepath.Join(cfg.Build.SourceDir, ".songbook", "index.db")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.New(os.Stderr)
		}
		logger.Error(err.Error())
		var xe *domainerr.ExitError
		if stderrors.As(err, &xe) {
			os.Exit(xe.Code)
		}
		os.Exit(1)
	}
}
