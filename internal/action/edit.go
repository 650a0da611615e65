package action

import (
	"context"

	"taskrelay/internal/lineedit"
	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// UpdateFileAction applies a line-range-addressed mutation via the line
// editor. The target file must already exist; the range field selects span,
// append, or full-overwrite mode.
func UpdateFileAction(env Env) *Action {
	// Range is not a required parameter: an absent or empty range means
	// append mode.
	return &Action{
		Name:     queue.ActionUpdateFile,
		Required: []string{"file"},
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			ok, msg := lineedit.Update(env.abs(cmd.File), cmd.Range, cmd.Content)
			if ok {
				logging.Actions("updated %s (%s)", cmd.File, cmd.Range)
			}
			return &queue.Result{Success: ok, Message: msg}
		},
	}
}

// ReadFileAction reads a file through the capped permissive reader,
// optionally sliced to a line range.
func ReadFileAction(env Env) *Action {
	return &Action{
		Name:     queue.ActionReadFile,
		Required: []string{"file"},
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			ok, text, truncated := lineedit.Read(env.abs(cmd.File), cmd.Range)
			if !ok {
				return &queue.Result{Success: false, Error: text}
			}
			logging.ActionsDebug("read %s (%d bytes, truncated=%v)", cmd.File, len(text), truncated)
			return &queue.Result{Success: true, Content: text, Truncated: truncated}
		},
	}
}
