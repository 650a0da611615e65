package action

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// abs joins a command-supplied path under the sandbox root.
func (e Env) abs(file string) string {
	return filepath.Join(e.Root, filepath.FromSlash(file))
}

// CreateFileAction writes (or overwrites) a file, creating parent
// directories as needed.
func CreateFileAction(env Env) *Action {
	return &Action{
		Name:     queue.ActionCreateFile,
		Required: []string{"file"},
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			path := env.abs(cmd.File)

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return Failure("Failed to create file: %v", err)
			}
			if err := os.WriteFile(path, []byte(cmd.Content), 0644); err != nil {
				return Failure("Failed to create file: %v", err)
			}

			logging.Actions("created %s (%d bytes)", cmd.File, len(cmd.Content))
			return &queue.Result{
				Success: true,
				Message: fmt.Sprintf("File '%s' created successfully.", cmd.File),
			}
		},
	}
}

// DeleteFileAction removes a file. An absent file is a reported failure;
// other OS errors surface verbatim.
func DeleteFileAction(env Env) *Action {
	return &Action{
		Name:     queue.ActionDeleteFile,
		Required: []string{"file"},
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			path := env.abs(cmd.File)

			if _, err := os.Stat(path); err != nil {
				return &queue.Result{Success: false, Message: "Delete failed: File not found."}
			}
			if err := os.Remove(path); err != nil {
				return &queue.Result{Success: false, Message: fmt.Sprintf("Delete failed: %v", err)}
			}

			logging.Actions("deleted %s", cmd.File)
			return &queue.Result{
				Success: true,
				Message: fmt.Sprintf("File '%s' deleted successfully.", cmd.File),
			}
		},
	}
}

// ListExecutorTreeAction enumerates every file under the sandbox root as
// slash-separated paths relative to that root.
func ListExecutorTreeAction(env Env) *Action {
	return &Action{
		Name: queue.ActionListExecutorTree,
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			files := []string{}
			err := filepath.WalkDir(env.Root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				rel, err := filepath.Rel(env.Root, path)
				if err != nil {
					return err
				}
				files = append(files, filepath.ToSlash(rel))
				return nil
			})
			if err != nil {
				return Failure("Directory listing error: %v", err)
			}

			logging.ActionsDebug("listed %d files under %s", len(files), env.Root)
			return &queue.Result{Success: true, Files: files}
		},
	}
}
