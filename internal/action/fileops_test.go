package action

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"taskrelay/internal/queue"
)

func TestCreateFile_WithParentDirs(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	result := CreateFileAction(env).Execute(context.Background(), &queue.Command{
		Action:  queue.ActionCreateFile,
		File:    "pkg/sub/mod.py",
		Content: "print('hi')\n",
	})

	if !result.Success {
		t.Fatalf("create failed: %s", result.Error)
	}

	data, err := os.ReadFile(filepath.Join(env.Root, "pkg", "sub", "mod.py"))
	if err != nil {
		t.Fatalf("file missing: %v", err)
	}
	if string(data) != "print('hi')\n" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestCreateFile_OverwritesExisting(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	ctx := context.Background()
	create := CreateFileAction(env)

	create.Execute(ctx, &queue.Command{File: "a.txt", Content: "old"})
	result := create.Execute(ctx, &queue.Command{File: "a.txt", Content: "new"})
	if !result.Success {
		t.Fatalf("overwrite failed: %s", result.Error)
	}

	data, _ := os.ReadFile(filepath.Join(env.Root, "a.txt"))
	if string(data) != "new" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestDeleteFile(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	ctx := context.Background()

	t.Run("absent file is a reported failure", func(t *testing.T) {
		result := DeleteFileAction(env).Execute(ctx, &queue.Command{File: "ghost.txt"})
		if result.Success {
			t.Fatal("expected failure")
		}
		if !strings.Contains(result.Message, "not found") {
			t.Errorf("unexpected message: %q", result.Message)
		}
	})

	t.Run("existing file is removed", func(t *testing.T) {
		path := filepath.Join(env.Root, "doomed.txt")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		result := DeleteFileAction(env).Execute(ctx, &queue.Command{File: "doomed.txt"})
		if !result.Success {
			t.Fatalf("delete failed: %s", result.Message)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file still exists")
		}
	})
}

func TestListExecutorTree(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	for _, rel := range []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"} {
		path := filepath.Join(env.Root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	result := ListExecutorTreeAction(env).Execute(context.Background(), &queue.Command{})
	if !result.Success {
		t.Fatalf("list failed: %s", result.Error)
	}

	sort.Strings(result.Files)
	want := []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"}
	if len(result.Files) != len(want) {
		t.Fatalf("unexpected files: %v", result.Files)
	}
	for i, rel := range want {
		if result.Files[i] != rel {
			t.Errorf("files[%d] = %q, want %q", i, result.Files[i], rel)
		}
	}
}

func TestListExecutorTree_EmptyRoot(t *testing.T) {
	t.Parallel()

	result := ListExecutorTreeAction(testEnv(t)).Execute(context.Background(), &queue.Command{})
	if !result.Success {
		t.Fatalf("list failed: %s", result.Error)
	}
	if len(result.Files) != 0 {
		t.Errorf("expected no files, got %v", result.Files)
	}
}
