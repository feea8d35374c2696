package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gomercuriale/config"
	"gomercuriale/internal/mercuriale/app"
	"gomercuriale/internal/mercuriale/models"
	"gomercuriale/internal/mercuriale/storage"
	"gomercuriale/pkg/business/service/fetcher"
	"gomercuriale/pkg/logger"
)

type options struct {
	configPath string
	envPath    string
	dataDir    string
	sources    string
	logLevel   string
}

// session is what every subcommand works on: one loaded App per invocation.
type session struct {
	opts    options
	app     *app.App
	log     *logger.BaseLogger
	logFile io.Closer
}

func newRootCmd() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:   "mercuriale",
		Short: "Search supplier price lists and build an order",
		Long: `mercuriale loads the configured supplier catalogs (mercuriales), searches
them, keeps an order list with quantities between runs and exports it as
CSV or Excel.

Examples:
  mercuriale search beurre --field "Libellé produit"
  mercuriale search "100, 200,300" --field "Code Produit"
  mercuriale add 1234 vendome
  mercuriale qty 1234 vendome 3
  mercuriale export --format both`,
		SilenceUsage:      true,
		PersistentPreRunE: s.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.opts.configPath, "config", "c", "config.yaml", "YAML configuration file")
	flags.StringVar(&s.opts.envPath, "env", ".env", "dotenv file with POSTGRES_* settings")
	flags.StringVar(&s.opts.dataDir, "data-dir", ".", "base directory for relative catalog locations")
	flags.StringVarP(&s.opts.sources, "sources", "s", "", "comma separated source ids to search (default: all)")
	flags.StringVar(&s.opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newSourcesCmd(s),
		newSearchCmd(s),
		newAddCmd(s),
		newRemoveCmd(s),
		newQtyCmd(s),
		newCartCmd(s),
		newClearCmd(s),
		newColumnsCmd(s),
		newCompareCmd(s),
		newExportCmd(s),
		newResetCmd(s),
	)
	return root
}

func (s *session) open(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(s.opts.envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", s.opts.envPath, err)
	}

	cfg, err := config.LoadConfig(s.opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if s.opts.logLevel != "" {
		level = s.opts.logLevel
	}
	var w io.Writer
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		s.logFile = f
		w = f
	}
	s.log = logger.NewLogger(w, "mercuriale", level)

	kv, err := storage.Open(cfg, s.log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	s.app = app.New(cfg, fetcher.NewRoutingFetcher(s.opts.dataDir), kv, s.log)
	if err := s.app.Load(cmd.Context()); err != nil {
		return err
	}

	if s.opts.sources != "" {
		var ids []models.SourceID
		for _, id := range strings.Split(s.opts.sources, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, models.SourceID(id))
			}
		}
		if err := s.app.SetEnabledSources(ids...); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) close() error {
	var err error
	if s.app != nil {
		err = s.app.Close()
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
	if s.logFile != nil {
		s.logFile.Close()
	}
	return err
}
