package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"taskrelay/internal/action"
	"taskrelay/internal/client"
	"taskrelay/internal/executor"
	"taskrelay/internal/logging"
)

// execCmd runs the polling executor.
var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Run the executor loop against a relay",
	Long: `Polls the relay for pending commands at a fixed interval and runs
each one against the local sandbox directory: file creation, line-range
edits, capped reads, script execution under the pinned interpreter, and
package management through the pinned pip binary.

Paths in commands are joined under the sandbox root without traversal
checks; run the executor only against relays you trust.`,
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cfg.Executor.SandboxRoot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create sandbox root: %w", err)
	}

	listTimeout, err := cfg.ListTimeout()
	if err != nil {
		return err
	}
	commandTimeout, err := cfg.CommandTimeout()
	if err != nil {
		return err
	}
	interval, err := cfg.PollInterval()
	if err != nil {
		return err
	}

	cli := client.New(cfg.Executor.ServerURL, cfg.Executor.Token, listTimeout)
	defer cli.Close()

	env := action.Env{
		Root:           root,
		PythonBin:      cfg.Executor.PythonBin,
		PipBin:         cfg.Executor.PipBin,
		CommandTimeout: commandTimeout,
	}
	registry := action.NewDefaultRegistry(env)

	var journal *executor.Journal
	if cfg.Executor.JournalPath != "" {
		journal, err = executor.OpenJournal(cfg.Executor.JournalPath)
		if err != nil {
			return err
		}
		defer journal.Close()
	}

	dispatcher := executor.NewDispatcher(cli, registry, journal)
	poller := executor.NewPoller(cli, dispatcher, interval)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Boot("executor started: relay=%s sandbox=%s actions=%v",
		cfg.Executor.ServerURL, root, registry.Names())

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Boot("executor stopped")
	return nil
}
