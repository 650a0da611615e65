// Package action defines the executor's verbs and the registry that routes
// commands to them. Handlers never return Go errors upward: every fault,
// including missing parameters and panics, is converted into a failure
// result so one malformed command can never abort the polling loop.
package action

import (
	"context"
	"fmt"
	"time"

	"taskrelay/internal/queue"
)

// Env carries the executor-local context every handler composes over: the
// sandbox root, the pinned interpreter and package-manager binaries, and
// the hard timeout for subprocess work.
type Env struct {
	// Root is the sandbox directory file paths are joined under. Paths
	// are not validated against traversal; the sandbox is a convention,
	// not an enforcement boundary.
	Root string

	// PythonBin runs executeFile scripts.
	PythonBin string

	// PipBin runs package actions.
	PipBin string

	// CommandTimeout bounds each subprocess and package-manager call.
	CommandTimeout time.Duration
}

// Handler executes one verb against a decoded command.
type Handler func(ctx context.Context, cmd *queue.Command) *queue.Result

// Action binds a verb to its handler and required parameters.
type Action struct {
	// Name is the wire verb, one of the queue action enum.
	Name string

	// Required lists command fields that must be non-empty.
	Required []string

	// Execute runs the verb. Must return a result, never panic by
	// contract; the registry still recovers if one does.
	Execute Handler
}

// missingParam returns the first required field the command lacks.
func (a *Action) missingParam(cmd *queue.Command) string {
	for _, field := range a.Required {
		if paramValue(cmd, field) == "" {
			return field
		}
	}
	return ""
}

// paramValue maps a wire field name to its command value.
func paramValue(cmd *queue.Command, field string) string {
	switch field {
	case "package":
		return cmd.Package
	case "file":
		return cmd.File
	case "content":
		return cmd.Content
	case "range":
		return cmd.Range
	case "args":
		return cmd.Args
	default:
		return ""
	}
}

// Failure builds a failure result with an error message.
func Failure(format string, args ...any) *queue.Result {
	return &queue.Result{Success: false, Error: fmt.Sprintf(format, args...)}
}
