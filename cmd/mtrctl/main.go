package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/config"
	"steel-ledger/mtrledger/internal/db"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/services"
	"steel-ledger/mtrledger/internal/tabular"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitBusy       = 3
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// classify attaches the exit code matching a service error.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case services.IsValidation(err):
		return withCode(exitValidation, err)
	case errors.Is(err, services.ErrWriteBusy):
		return withCode(exitBusy, err)
	default:
		return withCode(exitFailure, err)
	}
}

// app holds the services a command runs against, opened lazily by PersistentPreRunE.
type app struct {
	cfg   *config.Config
	orm   *gorm.DB
	quiet bool
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return withCode(exitValidation, err)
	}
	a.cfg = cfg

	if a.quiet {
		logging.InitNop()
	} else if err := logging.Init(cfg.AppEnv); err != nil {
		return err
	}

	orm, err := db.InitORM(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(orm); err != nil {
		return err
	}
	a.orm = orm
	return nil
}

func (a *app) locker() common.WriteLocker {
	if a.cfg.RedisEnabled() {
		return common.NewRedisWriteLocker(common.NewRedisClient(a.cfg))
	}
	return common.NewLocalWriteLocker(0)
}

func (a *app) importService() *services.InventoryImportService {
	return services.NewInventoryImportService(a.orm, tabular.NewReader(), a.locker(), nil)
}

func (a *app) mtrService() *services.MtrService {
	return services.NewMtrService(a.orm, a.locker(), nil)
}

func (a *app) joinService() *services.JoinService {
	return services.NewJoinService(a.orm, nil, nil, nil)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "mtrctl",
		Short:             "Import inventory ledgers and MTR certificates, inspect the joined view",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Disable logging")

	root.AddCommand(newImportCmd(a), newUpsertCmd(a), newJoinedCmd(a))
	return root
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	defer logging.Close()

	if err == nil {
		os.Exit(exitOK)
	}

	fmt.Fprintln(os.Stderr, "error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	os.Exit(exitFailure)
}
