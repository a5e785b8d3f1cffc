package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/config"
	"github.com/goliatone/go-accounts/logging"
	"github.com/goliatone/go-accounts/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", "text").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	lgr := logging.New(os.Stdout, cfg.GetLog().Level, cfg.GetLog().Format)

	if err := run(context.Background(), cfg, lgr); err != nil {
		lgr.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.BaseConfig, lgr *logging.SlogLogger) error {
	db, err := persistence.Open(ctx, cfg.GetPersistence())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := accounts.NewRepositoryManager(db)
	repo.MustValidate()

	if err := repo.CreateSchema(ctx); err != nil {
		return err
	}

	ctrl, err := accounts.NewControllerFromConfig(cfg, repo, lgr.With("component", "accounts"))
	if err != nil {
		return err
	}

	app := accounts.NewApp(ctrl, lgr)

	errCh := make(chan error, 1)
	go func() {
		lgr.Info("listening", "addr", cfg.Addr, "driver", cfg.GetPersistence().Driver)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-WaitExitSignal():
		lgr.Info("shutting down", "signal", sig.String())
	}

	return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
}

// WaitExitSignal delivers the first termination signal
func WaitExitSignal() <-chan os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return ch
}
