// Package executor contains the polling loop and dispatch engine that turn
// relay commands into local action executions and reported results.
package executor

import (
	"context"
	"errors"

	"taskrelay/internal/action"
	"taskrelay/internal/client"
	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// QueueStore is the relay collaborator surface the executor consumes.
// *client.Client implements it.
type QueueStore interface {
	ReadFile(ctx context.Context, collection, name string) (string, error)
	SaveFile(ctx context.Context, collection, name, content string) error
	DeleteFile(ctx context.Context, collection, name string) error
	ListFiles(ctx context.Context, collection string) ([]string, error)
}

// Dispatcher fetches, decodes, routes, and finalizes one command at a time.
type Dispatcher struct {
	store    QueueStore
	registry *action.Registry

	// journal is optional; when present, finalized command ids are
	// recorded durably so a redelivered command is cleaned up instead
	// of re-executed.
	journal *Journal
}

// NewDispatcher builds a dispatcher. journal may be nil.
func NewDispatcher(store QueueStore, registry *action.Registry, journal *Journal) *Dispatcher {
	return &Dispatcher{store: store, registry: registry, journal: journal}
}

// Process handles one discovered command id through its full lifecycle.
// It never returns an error: every outcome is either a finalized result,
// a deleted command, or a logged transport failure that leaves the command
// for the next poll.
func (d *Dispatcher) Process(ctx context.Context, id string) {
	raw, err := d.store.ReadFile(ctx, queue.CollectionCommand, id)
	if err != nil {
		if errors.Is(err, client.ErrRemote) {
			// The relay answered but could not produce the
			// document (typically deleted between list and read).
			// Clean up and move on.
			logging.DispatcherWarn("command %s unreadable on relay, discarding: %v", id, err)
			d.discard(ctx, id)
			return
		}
		// Transport failure: the command is not lost, the next poll
		// rediscovers it.
		logging.DispatcherWarn("fetch of %s failed, will retry next poll: %v", id, err)
		return
	}

	if d.journal != nil {
		seen, err := d.journal.Seen(ctx, id)
		if err != nil {
			logging.JournalWarn("journal lookup for %s failed: %v", id, err)
		} else if seen {
			// Already executed and acknowledged; a leftover
			// command file means only the delete failed last time.
			logging.Journal("command %s already finalized, deleting leftover", id)
			d.discard(ctx, id)
			return
		}
	}

	cmd, err := queue.DecodeCommand([]byte(raw))
	if err != nil {
		// Deliberate asymmetry: an undecodable command is deleted
		// without producing any result, unblocking the queue.
		logging.DispatcherWarn("skipping corrupted command %s: %v", id, err)
		d.discard(ctx, id)
		return
	}

	var result *queue.Result
	if cmd.Action == "" {
		result = &queue.Result{Success: false, Error: "Missing 'action' attribute in command"}
	} else {
		result = d.registry.Dispatch(ctx, cmd)
	}

	d.finalize(ctx, id, result)
}

// finalize writes the result under the command's id, records the
// acknowledgment, and deletes the command. Failures of either call are
// logged, not retried here: an un-deleted command is rediscovered by the
// next poll, which is why handlers must tolerate re-delivery.
func (d *Dispatcher) finalize(ctx context.Context, id string, result *queue.Result) {
	data, err := queue.EncodeResult(result)
	if err != nil {
		logging.DispatcherError("failed to encode result for %s: %v", id, err)
		return
	}

	saved := true
	if err := d.store.SaveFile(ctx, queue.CollectionResult, id, string(data)); err != nil {
		saved = false
		logging.DispatcherError("failed to save result for %s: %v", id, err)
	}

	if saved && d.journal != nil {
		if err := d.journal.Record(ctx, id); err != nil {
			logging.JournalWarn("failed to journal %s: %v", id, err)
		}
	}

	if err := d.store.DeleteFile(ctx, queue.CollectionCommand, id); err != nil {
		logging.DispatcherError("failed to delete command %s: %v", id, err)
		return
	}

	logging.Dispatcher("finalized %s (success=%v)", id, result.Success)
}

// discard deletes a command without producing a result.
func (d *Dispatcher) discard(ctx context.Context, id string) {
	if err := d.store.DeleteFile(ctx, queue.CollectionCommand, id); err != nil {
		logging.DispatcherWarn("failed to delete command %s: %v", id, err)
	}
}
