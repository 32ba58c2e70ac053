// internal/launchpad/unit.go
package launchpad

import (
	"context"

	"github.com/curvelabs/launchpad/internal/events"
)

// unit makes one externally invoked operation all-or-nothing. Every state
// mutation and collaborator side effect registers an undo closure; on any
// failure the undos run in reverse order, restoring the pre-call state.
// Events are held back and published only after the unit has committed.
type unit struct {
	undos   []func()
	pending []events.Event
}

func newUnit() *unit {
	return &unit{}
}

// onRollback registers a compensation for an effect that just took place.
func (u *unit) onRollback(fn func()) {
	u.undos = append(u.undos, fn)
}

// emitLater queues an event for publication at commit time.
func (u *unit) emitLater(ev events.Event) {
	u.pending = append(u.pending, ev)
}

// rollback undoes all registered effects, most recent first. Compensations
// against the in-memory collaborators cannot fail.
func (u *unit) rollback() {
	for i := len(u.undos) - 1; i >= 0; i-- {
		u.undos[i]()
	}
	u.undos = nil
	u.pending = nil
}

// commit discards the undo log and publishes the queued events in order.
func (u *unit) commit(ctx context.Context, stream *events.Stream) {
	u.undos = nil
	for _, ev := range u.pending {
		stream.Emit(ctx, ev)
	}
	u.pending = nil
}

// enter acquires the engine's non-reentrant execution flag. A call arriving
// while another operation is in flight is rejected, never queued; hostile
// collaborator callbacks re-invoking the engine land here.
func (e *Engine) enter() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return ErrReentrantCall
	}
	e.busy = true
	return nil
}

// exit releases the execution flag. Deferred on every exit path.
func (e *Engine) exit() {
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}
