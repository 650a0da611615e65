package action

import (
	"context"
	"os"
	"strings"

	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// ExecuteFileAction runs a script under the pinned interpreter with the
// environment's hard timeout. A completed run is a success regardless of
// exit code, with stdout and stderr attached separately; interpreting the
// exit status is the consumer's job. A timeout is a distinct failure.
func ExecuteFileAction(env Env) *Action {
	return &Action{
		Name:     queue.ActionExecuteFile,
		Required: []string{"file"},
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			path := env.abs(cmd.File)
			if _, err := os.Stat(path); err != nil {
				return Failure("File not found.")
			}

			args := append([]string{path}, strings.Fields(cmd.Args)...)

			logging.Actions("executing %s (args=%q)", cmd.File, cmd.Args)
			outcome := env.run(ctx, env.PythonBin, args...)

			if outcome.TimedOut {
				return Failure("Execution failed: Script timed out (limit: %s).", env.CommandTimeout)
			}
			if outcome.StartErr != nil {
				return Failure("Execution error: %v", outcome.StartErr)
			}
			return &queue.Result{
				Success: true,
				Stdout:  outcome.Stdout,
				Stderr:  outcome.Stderr,
			}
		},
	}
}
