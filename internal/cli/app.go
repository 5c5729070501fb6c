package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/scholarkeeper/internal/config"
	"github.com/dmitrijs2005/scholarkeeper/internal/logging"
	"github.com/dmitrijs2005/scholarkeeper/internal/store"
	"github.com/dmitrijs2005/scholarkeeper/internal/transfer"
)

// Command annotations.
const (
	// skipStore marks commands that run without an open database.
	skipStore = "skip_store"
	// skipSeed marks commands that open the database but must not seed it.
	skipSeed = "skip_seed"
)

// App is the state shared by all commands of one invocation.
type App struct {
	flags    *config.Flags
	cfg      *config.Config
	logger   logging.Logger
	store    *store.Store
	transfer *transfer.Service
	now      func() time.Time
	jsonOut  bool
}

// NewRootCommand builds the command tree. now may be nil.
func NewRootCommand(now func() time.Time) *cobra.Command {
	root, _ := newRoot(now)
	return root
}

func newRoot(now func() time.Time) (*cobra.Command, *App) {
	if now == nil {
		now = time.Now
	}
	a := &App{now: now}

	root := &cobra.Command{
		Use:           "scholarkeeper",
		Short:         "Track scholarship applications, checklists and documents",
		Long:          `A local tracker for scholarship applications: deadlines, per-application checklists, shared supporting documents, templates, backups and JSON import/export.`,
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	a.flags = config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		a.scholarshipCommand(),
		a.checklistCommand(),
		a.documentCommand(),
		a.templateCommand(),
		a.statsCommand(),
		a.upcomingCommand(),
		a.calendarCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.backupCommand(),
		a.devCommand(),
	)
	return root, a
}

func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	if cmd.Annotations[skipStore] == "true" {
		return nil
	}

	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.DatabasePath, store.WithClock(a.now), store.WithLogger(logger))
	if err != nil {
		return err
	}
	a.store = st
	a.transfer = transfer.NewService(st, logger)

	if cfg.SeedOnFirstRun && cmd.Annotations[skipSeed] != "true" {
		if _, err := a.transfer.SeedIfNeeded(ctx); err != nil {
			logger.Warn(ctx, "seeding failed", "error", err)
		}
	}
	return nil
}

func (a *App) teardown() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Execute runs the command tree with args and returns the first error. The
// database is closed even when the command fails.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	return execute(ctx, nil, args, stdin, stdout, stderr)
}

func execute(ctx context.Context, now func() time.Time, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root, a := newRoot(now)
	defer a.teardown()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return err
	}
	return nil
}
