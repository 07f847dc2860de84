// Package main is the entry point for the tasklists CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tasklists/internal/cli"
	"tasklists/internal/commands"
	"tasklists/internal/config"
	"tasklists/internal/idclock"
	"tasklists/internal/liststore"
	"tasklists/internal/service"
	"tasklists/internal/session"
	"tasklists/internal/storage"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, openSession)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// openSession opens the configured storage and loads the saved lists.
func openSession(ctx context.Context, cfg *config.Config) (service.Service, error) {
	backend, err := storage.Open(cfg.Backend, cfg.DataPath)
	if err != nil {
		return nil, err
	}

	log := cfg.Log()
	ops := liststore.New(idclock.New(cfg.TimestampFormat))
	s, err := session.Open(ctx, ops, storage.NewAdapter(backend, log), session.Options{
		Key:         cfg.StateKey,
		SaveTimeout: cfg.SaveTimeout,
		Logger:      log,
		Closer:      backend,
	})
	if err != nil {
		// Running on would show an empty default in place of the unread lists.
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
