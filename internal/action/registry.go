package action

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// Registry holds the verb-to-handler table. It is thread-safe, though the
// executor dispatches strictly sequentially.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Action)}
}

// Register adds an action. Duplicate verbs are an error.
func (r *Registry) Register(a *Action) error {
	if a.Name == "" {
		return fmt.Errorf("action name is required")
	}
	if a.Execute == nil {
		return fmt.Errorf("action %s has no handler", a.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[a.Name]; exists {
		return fmt.Errorf("action already registered: %s", a.Name)
	}
	r.actions[a.Name] = a

	logging.ActionsDebug("registered action %s (required=%v)", a.Name, a.Required)
	return nil
}

// MustRegister registers an action and panics on error. Use for static
// registration at startup.
func (r *Registry) MustRegister(a *Action) {
	if err := r.Register(a); err != nil {
		panic(fmt.Sprintf("failed to register action %s: %v", a.Name, err))
	}
}

// Get returns an action by verb, or nil.
func (r *Registry) Get(name string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Names returns all registered verbs, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// Dispatch routes a command to its handler inside the isolation boundary:
// unknown verbs, missing parameters, and handler panics all come back as
// failure results, never as errors or crashes.
func (r *Registry) Dispatch(ctx context.Context, cmd *queue.Command) (result *queue.Result) {
	defer func() {
		if p := recover(); p != nil {
			logging.ActionsWarn("action %s panicked: %v", cmd.Action, p)
			result = Failure("%s error: %v", cmd.Action, p)
		}
	}()

	a := r.Get(cmd.Action)
	if a == nil {
		return Failure("Unknown action: %s", cmd.Action)
	}

	if missing := a.missingParam(cmd); missing != "" {
		return Failure("%s error: missing required parameter '%s'", cmd.Action, missing)
	}

	logging.ActionsDebug("executing %s (file=%q)", cmd.Action, cmd.File)
	return a.Execute(ctx, cmd)
}
