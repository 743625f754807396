package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"abchub/internal/background"
	"abchub/internal/catalog"
	"abchub/internal/config"
	"abchub/internal/logging"
	"abchub/internal/mirror"
	"abchub/internal/repository"
	"abchub/internal/service"
)

// app is the state shared by every subcommand, built in PersistentPreRunE
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	store       *repository.Store
	remote      mirror.Mirror
	tasks       *background.Executor
	closeMedium func() error
	stopWorkers context.CancelFunc
}

func (a *app) close() error {
	var errList []error
	if a.tasks != nil {
		a.tasks.Close()
	}
	if a.stopWorkers != nil {
		a.stopWorkers()
	}
	if a.closeMedium != nil {
		errList = append(errList, a.closeMedium())
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errList...)
}

func (a *app) sessions() (*service.SessionService, error) {
	cat, err := catalog.Load(a.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return service.NewSessionService(a.store, a.remote, a.tasks, cat, nil, a.logger), nil
}

func newRootCmd(a *app) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "abchub",
		Short: "ABC Hub maintenance tool",
		Long: `abchub inspects and maintains the ABC Hub record store.

Storage is selected with the same environment variables as the server:
  DATABASE_TYPE    sqlite, postgres, mysql or memory (default: sqlite)
  DB_PATH          SQLite database path (default: ./abchub.db)
  DATABASE_URL     PostgreSQL or MySQL connection URL
  MIRROR_ENABLED, MIRROR_URL, MIRROR_API_KEY configure the remote mirror.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			a.logger, err = logging.New(verbose || cfg.Debug)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			medium, closeMedium, err := repository.OpenMedium(cfg, a.logger)
			if err != nil {
				return err
			}
			a.closeMedium = closeMedium
			a.store = repository.NewStore(medium, a.logger)
			a.remote = mirror.New(cfg.Mirror, a.logger)

			var ctx context.Context
			ctx, a.stopWorkers = context.WithCancel(context.Background())
			a.tasks = background.New(1, cfg.MirrorQueue, cfg.Mirror.Timeout, a.logger)
			a.tasks.Start(ctx)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newBackupCmd(a))
	root.AddCommand(newMirrorCmd(a))
	root.AddCommand(newLeaderboardCmd(a))
	return root
}

// run executes one command line and releases everything it opened
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		os.Exit(1)
	}
}
