package action

import (
	"context"

	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// InstallPackageAction installs a package through the pinned pip binary.
// Success means the process ran to completion; its exit code is not
// inspected, and the combined output is returned for remote debugging.
func InstallPackageAction(env Env) *Action {
	return &Action{
		Name:     queue.ActionInstallPackage,
		Required: []string{"package"},
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			return env.runPip(ctx, "install", cmd.Package)
		},
	}
}

// UninstallPackageAction removes a package. The auto-confirm flag is added
// so pip never blocks on a prompt.
func UninstallPackageAction(env Env) *Action {
	return &Action{
		Name:     queue.ActionUninstallPackage,
		Required: []string{"package"},
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			return env.runPip(ctx, "uninstall", cmd.Package, "-y")
		},
	}
}

func (e Env) runPip(ctx context.Context, subcommand, pkg string, extra ...string) *queue.Result {
	args := append([]string{subcommand, pkg}, extra...)

	logging.Actions("pip %s %s", subcommand, pkg)
	outcome := e.run(ctx, e.PipBin, args...)

	if outcome.TimedOut {
		return Failure("Pip execution failed: timed out (limit: %s)", e.CommandTimeout)
	}
	if outcome.StartErr != nil {
		return Failure("Pip execution failed: %v", outcome.StartErr)
	}
	return &queue.Result{
		Success: true,
		Message: outcome.Stdout + outcome.Stderr,
	}
}
