package executor

import (
	"context"
	"time"

	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// Poller discovers pending commands at a fixed interval and feeds them to
// the dispatcher strictly one at a time. There is no backoff and no
// termination condition besides context cancellation; a handler may block
// the loop for up to its own timeout, an accepted serialization cost that
// buys isolation.
type Poller struct {
	store      QueueStore
	dispatcher *Dispatcher
	interval   time.Duration
}

// NewPoller builds a poller. interval defaults to one second.
func NewPoller(store QueueStore, dispatcher *Dispatcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{store: store, dispatcher: dispatcher, interval: interval}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	logging.Poller("executor polling every %s", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.tick(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick runs one poll cycle. Transport failures are logged and absorbed;
// the next tick simply retries.
func (p *Poller) tick(ctx context.Context) {
	names, err := p.store.ListFiles(ctx, queue.CollectionCommand)
	if err != nil {
		logging.PollerWarn("relay unreachable: %v", err)
		return
	}

	if len(names) > 0 {
		logging.Poller("found %d pending command(s)", len(names))
	}

	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		p.dispatcher.Process(ctx, name)
	}
}
