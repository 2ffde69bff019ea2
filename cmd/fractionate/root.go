package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/fractionator"
	"github.com/tsawler/fractionator/internal/config"
	"github.com/tsawler/fractionator/internal/logging"
)

// app is the state shared by all commands once configuration is loaded.
type app struct {
	cfgFile  string
	envFile  string
	logLevel string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "fractionate",
		Short:         "Break document text into titles, sentences, paragraphs and list items",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "environment file loaded before the config")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides the config)")

	root.AddCommand(
		newTextCmd(a),
		newPagesCmd(a),
		newSearchCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

func (a *app) options() fractionator.Options {
	opts := fractionator.DefaultOptions()
	opts.RemoveHTMLTags = a.cfg.Corpus.RemoveHTMLTags
	opts.ClassifyItems = a.cfg.Corpus.ClassifyItems
	opts.VerticalThreshold = a.cfg.Corpus.VerticalThreshold
	opts.Logger = a.logger
	return opts
}
