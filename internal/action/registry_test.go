package action

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskrelay/internal/queue"
)

func testEnv(t *testing.T) Env {
	t.Helper()
	return Env{
		Root:           t.TempDir(),
		PythonBin:      "sh",
		PipBin:         "sh",
		CommandTimeout: 30 * time.Second,
	}
}

func TestNewDefaultRegistry_CoversClosedEnum(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry(testEnv(t))

	known := queue.KnownActions()
	if r.Count() != len(known) {
		t.Fatalf("registry has %d actions, enum has %d", r.Count(), len(known))
	}
	for _, verb := range known {
		if r.Get(verb) == nil {
			t.Errorf("verb %s not registered", verb)
		}
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := &Action{Name: "x", Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
		return &queue.Result{Success: true}
	}}

	if err := r.Register(a); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := r.Register(a); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestDispatch_UnknownAction(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry(testEnv(t))

	result := r.Dispatch(context.Background(), &queue.Command{Action: "formatDisk"})
	if result.Success {
		t.Fatal("unknown action must fail")
	}
	if !strings.Contains(result.Error, "Unknown action: formatDisk") {
		t.Errorf("unexpected error: %q", result.Error)
	}
}

func TestDispatch_MissingRequiredParameter(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry(testEnv(t))

	result := r.Dispatch(context.Background(), &queue.Command{Action: queue.ActionInstallPackage})
	if result.Success {
		t.Fatal("missing parameter must fail")
	}
	if !strings.Contains(result.Error, "package") {
		t.Errorf("error should name the missing parameter: %q", result.Error)
	}
}

func TestDispatch_PanicIsIsolated(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister(&Action{
		Name: "explode",
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			panic("boom")
		},
	})

	result := r.Dispatch(context.Background(), &queue.Command{Action: "explode"})
	if result == nil || result.Success {
		t.Fatal("panicking handler must yield a failure result")
	}
	if !strings.Contains(result.Error, "boom") {
		t.Errorf("panic message lost: %q", result.Error)
	}
}
