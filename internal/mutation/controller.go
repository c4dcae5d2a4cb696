package mutation

import (
	"context"
	"errors"
	"sync"

	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/logger"
)

var (
	// ErrInFlight rejects a second mutation for an entity whose previous one
	// has not settled. Rapid repeated clicks must produce one network call.
	ErrInFlight = errors.New("mutation already in flight for entity")

	// ErrAlreadyApplied rejects a one-shot mutation that already settled,
	// e.g. liking a reply twice.
	ErrAlreadyApplied = errors.New("mutation already applied for entity")
)

// Controller serializes mutations per entity id. Mutations on different
// entities are independent and may settle in any order; two mutations on the
// same entity never overlap.
type Controller struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	applied  map[string]struct{}
}

// NewController creates an empty Controller.
func NewController() *Controller {
	return &Controller{
		inFlight: make(map[string]struct{}),
		applied:  make(map[string]struct{}),
	}
}

func (c *Controller) begin(entityID string, once bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.applied[entityID]; ok && once {
		return ErrAlreadyApplied
	}
	if _, ok := c.inFlight[entityID]; ok {
		return ErrInFlight
	}
	c.inFlight[entityID] = struct{}{}
	return nil
}

func (c *Controller) finish(entityID string, settled, once bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, entityID)
	if settled && once {
		c.applied[entityID] = struct{}{}
	}
}

// InFlight reports whether a mutation for the entity is pending.
func (c *Controller) InFlight(entityID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[entityID]
	return ok
}

// Toggle describes one optimistic state change: the view flips to Optimistic
// immediately and settles on the server's verdict.
type Toggle[S any] struct {
	// EntityID scopes the in-flight guard, e.g. "post:7:like".
	EntityID string

	// Prior is the exact state to restore on failure, including any numeric
	// deltas already folded into Optimistic.
	Prior S

	// Optimistic is the state applied before the network round-trip.
	Optimistic S

	// Apply writes a snapshot into the view state. The mutation owns the
	// state object for the duration of the submit; no other writer may touch
	// it (single-writer rule).
	Apply func(S)

	// Confirm performs the network call. It may return an authoritative
	// snapshot (ok=true) that overwrites the optimistic one on success.
	Confirm func(ctx context.Context) (S, bool, error)

	// Once marks a non-reversible mutation: after a successful settle the
	// entity id is remembered and further submits are rejected.
	Once bool
}

// Submit runs the optimistic apply/confirm/rollback cycle. The optimistic
// snapshot is applied synchronously before Confirm is invoked. On failure the
// prior snapshot is restored exactly and the error returned for the caller to
// surface; api.ErrUnauthorized passes through untouched since the API layer
// already cleared the credential. A canceled context rolls back the same way.
func Submit[S any](ctx context.Context, c *Controller, t Toggle[S]) error {
	if err := c.begin(t.EntityID, t.Once); err != nil {
		return err
	}

	// Optimistic apply before any network I/O. Derived counters must already
	// be folded into the snapshot as explicit deltas, never re-derived from a
	// list that may be stale by the time the request settles.
	t.Apply(t.Optimistic)

	settled := false
	defer func() {
		c.finish(t.EntityID, settled, t.Once)
	}()

	if err := ctx.Err(); err != nil {
		t.Apply(t.Prior)
		return err
	}

	server, authoritative, err := t.Confirm(ctx)
	if err != nil {
		t.Apply(t.Prior)
		logger.Log.WithField("entity", t.EntityID).WithError(err).Warn("Mutation rolled back")
		return err
	}

	if authoritative {
		// The server recomputed the fields itself; its answer wins over the
		// optimistic deltas.
		t.Apply(server)
	}
	settled = true
	return nil
}

// Append describes a create-style mutation: nothing is applied until the
// server confirms, then the created record is committed to the view.
type Append[S any] struct {
	EntityID string
	Confirm  func(ctx context.Context) (S, error)
	Commit   func(S)
}

// SubmitAppend runs the confirm-then-commit cycle under the same per-entity
// guard as Submit.
func SubmitAppend[S any](ctx context.Context, c *Controller, a Append[S]) error {
	if err := c.begin(a.EntityID, false); err != nil {
		return err
	}
	defer c.finish(a.EntityID, false, false)

	created, err := a.Confirm(ctx)
	if err != nil {
		return err
	}
	a.Commit(created)
	return nil
}
