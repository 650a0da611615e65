package executor

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taskrelay/internal/action"
	"taskrelay/internal/client"
	"taskrelay/internal/queue"
	"taskrelay/internal/server"
	"taskrelay/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// harness wires a real relay (store + HTTP server) to a real client so
// dispatcher tests exercise the full wire path.
type harness struct {
	cli  *client.Client
	env  action.Env
	disp *Dispatcher
}

func newHarness(t *testing.T, journal *Journal) *harness {
	t.Helper()

	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	ts := httptest.NewServer(server.New(st, "exec-token"))
	t.Cleanup(ts.Close)

	cli := client.New(ts.URL, "exec-token", 10*time.Second)
	t.Cleanup(cli.Close)

	env := action.Env{
		Root:           t.TempDir(),
		PythonBin:      "sh",
		PipBin:         "sh",
		CommandTimeout: 30 * time.Second,
	}

	return &harness{
		cli:  cli,
		env:  env,
		disp: NewDispatcher(cli, action.NewDefaultRegistry(env), journal),
	}
}

func (h *harness) enqueue(t *testing.T, id, doc string) {
	t.Helper()
	require.NoError(t, h.cli.SaveFile(context.Background(), queue.CollectionCommand, id, doc))
}

func (h *harness) commandExists(t *testing.T, id string) bool {
	t.Helper()
	names, err := h.cli.ListFiles(context.Background(), queue.CollectionCommand)
	require.NoError(t, err)
	for _, name := range names {
		if name == id {
			return true
		}
	}
	return false
}

func (h *harness) result(t *testing.T, id string) (*queue.Result, bool) {
	t.Helper()
	raw, err := h.cli.ReadFile(context.Background(), queue.CollectionResult, id)
	if err != nil {
		return nil, false
	}
	result, err := queue.DecodeResult([]byte(raw))
	require.NoError(t, err)
	return result, true
}

func TestDispatcher_CreateFileLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.enqueue(t, "job1.yaml", "action: createFile\nfile: hello.txt\ncontent: \"hi there\\n\"\n")
	h.disp.Process(ctx, "job1.yaml")

	data, err := os.ReadFile(filepath.Join(h.env.Root, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", string(data))

	result, ok := h.result(t, "job1.yaml")
	require.True(t, ok, "result must be produced")
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "hello.txt")

	assert.False(t, h.commandExists(t, "job1.yaml"), "command must be deleted after processing")
}

func TestDispatcher_UndecodableDeletesWithoutResult(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.enqueue(t, "corrupt.yaml", "action: [unclosed")
	h.disp.Process(ctx, "corrupt.yaml")

	assert.False(t, h.commandExists(t, "corrupt.yaml"), "corrupted command must be deleted")

	_, ok := h.result(t, "corrupt.yaml")
	assert.False(t, ok, "no result may be produced for an undecodable command")
}

func TestDispatcher_EmptyDocumentIsUndecodable(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.enqueue(t, "empty.yaml", "")
	h.disp.Process(ctx, "empty.yaml")

	assert.False(t, h.commandExists(t, "empty.yaml"))
	_, ok := h.result(t, "empty.yaml")
	assert.False(t, ok)
}

func TestDispatcher_MissingActionProducesFailureResult(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.enqueue(t, "noaction.yaml", "file: a.txt\n")
	h.disp.Process(ctx, "noaction.yaml")

	result, ok := h.result(t, "noaction.yaml")
	require.True(t, ok, "missing action still finalizes normally")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "action")

	assert.False(t, h.commandExists(t, "noaction.yaml"))
}

func TestDispatcher_UnknownActionProducesFailureResult(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.enqueue(t, "weird.yaml", "action: teleport\n")
	h.disp.Process(ctx, "weird.yaml")

	result, ok := h.result(t, "weird.yaml")
	require.True(t, ok)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Unknown action: teleport")

	assert.False(t, h.commandExists(t, "weird.yaml"))
}

func TestDispatcher_HandlerFaultDoesNotAbort(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	// updateFile on a file that does not exist: a handler-level failure
	// that must still finalize normally.
	h.enqueue(t, "up.yaml", "action: updateFile\nfile: absent.txt\nrange: 1-2\ncontent: x\n")
	h.disp.Process(ctx, "up.yaml")

	result, ok := h.result(t, "up.yaml")
	require.True(t, ok)
	assert.False(t, result.Success)
	assert.Equal(t, "File not found.", result.Message)
}

func TestDispatcher_TransportFailureLeavesCommand(t *testing.T) {
	fake := newFakeStore()
	fake.put(queue.CollectionCommand, "stuck.yaml", "action: listExecutorTree\n")
	fake.readErr = assert.AnError

	env := action.Env{Root: t.TempDir(), PythonBin: "sh", PipBin: "sh"}
	disp := NewDispatcher(fake, action.NewDefaultRegistry(env), nil)

	disp.Process(context.Background(), "stuck.yaml")

	// The command survives for the next poll; nothing was finalized.
	assert.True(t, fake.has(queue.CollectionCommand, "stuck.yaml"))
	assert.False(t, fake.has(queue.CollectionResult, "stuck.yaml"))
}

func TestDispatcher_JournalPreventsReexecution(t *testing.T) {
	journal, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	fake := newFakeStore()

	runs := 0
	registry := action.NewRegistry()
	registry.MustRegister(&action.Action{
		Name: "count",
		Execute: func(ctx context.Context, cmd *queue.Command) *queue.Result {
			runs++
			return &queue.Result{Success: true}
		},
	})

	disp := NewDispatcher(fake, registry, journal)
	ctx := context.Background()

	fake.put(queue.CollectionCommand, "once.yaml", "action: count\n")
	disp.Process(ctx, "once.yaml")
	require.Equal(t, 1, runs)
	assert.False(t, fake.has(queue.CollectionCommand, "once.yaml"))

	// Redelivery: the same id reappears (delete lost, or re-enqueued
	// with the same name). The journal must prevent a second run.
	fake.put(queue.CollectionCommand, "once.yaml", "action: count\n")
	disp.Process(ctx, "once.yaml")

	assert.Equal(t, 1, runs, "journaled command must not re-execute")
	assert.False(t, fake.has(queue.CollectionCommand, "once.yaml"), "leftover command must be cleaned up")
}

func TestJournal_SeenAndRecord(t *testing.T) {
	journal, err := OpenJournal(filepath.Join(t.TempDir(), "j.db"))
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	ctx := context.Background()

	seen, err := journal.Seen(ctx, "a.yaml")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, journal.Record(ctx, "a.yaml"))
	require.NoError(t, journal.Record(ctx, "a.yaml"), "double record must be harmless")

	seen, err = journal.Seen(ctx, "a.yaml")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestPoller_ProcessesEnqueuedCommands(t *testing.T) {
	h := newHarness(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := NewPoller(h.cli, h.disp, 50*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	h.enqueue(t, "polled.yaml", "action: listExecutorTree\n")

	require.Eventually(t, func() bool {
		_, ok := h.result(t, "polled.yaml")
		return ok
	}, 5*time.Second, 25*time.Millisecond, "poller never finalized the command")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestPoller_SurvivesTransportFailure(t *testing.T) {
	fake := newFakeStore()
	fake.listErr = assert.AnError

	env := action.Env{Root: t.TempDir(), PythonBin: "sh", PipBin: "sh"}
	disp := NewDispatcher(fake, action.NewDefaultRegistry(env), nil)
	poller := NewPoller(fake, disp, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Several failing ticks must pass without a crash.
	err := poller.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
