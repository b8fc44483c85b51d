package optimistic

import (
	"context"
	"fmt"

	"github.com/alexanderramin/arbor/internal/contract"
)

// State is where a mutation is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StatePredicting
	StateInFlight
	StateReconciled
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePredicting:
		return "predicting"
	case StateInFlight:
		return "in-flight"
	case StateReconciled:
		return "reconciled"
	case StateRolledBack:
		return "rolled-back"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome reports how a mutation settled.
type Outcome struct {
	State    State
	Redirect contract.Redirect
	// Err is set on rollback: the transport error or the application error.
	Err error
	// Refetched is true when the mutation triggered an immediate resync.
	Refetched bool
}

// AppError is a failure the server reported through an error redirect.
type AppError struct {
	Code contract.ErrorCode
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Code.Message())
}

// Mutation is one predicted write awaiting the server.
type Mutation struct {
	c        *Coordinator
	listID   string
	req      contract.MutationRequest
	snapshot View
	hadView  bool
	state    State
}

func (m *Mutation) State() State                      { return m.state }
func (m *Mutation) Request() contract.MutationRequest { return m.req }

// Begin snapshots the cached view of listID, applies the predicted result
// of req and marks the mutation in flight. Any refetch already running for
// the key is superseded.
func (c *Coordinator) Begin(listID string, req contract.MutationRequest) *Mutation {
	m := &Mutation{c: c, listID: listID, req: req, state: StatePredicting}

	c.mu.Lock()
	e := c.entryLocked(listID)
	e.generation++
	m.snapshot, m.hadView = e.view, e.loaded
	if e.loaded {
		e.view = Predict(e.view, req, c.newID())
	}
	e.inFlight++
	m.state = StateInFlight
	c.mu.Unlock()

	c.onChange(listID)
	return m
}

// Commit sends the mutation and settles it.
func (m *Mutation) Commit(ctx context.Context) Outcome {
	c := m.c
	resp, err := c.transport.Mutate(ctx, m.listID, m.req)
	var redirect contract.Redirect
	if err == nil {
		redirect, err = contract.ParseRedirect(resp.RedirectTo)
	}

	c.mu.Lock()
	e := c.entryLocked(m.listID)
	e.inFlight--
	if err != nil || redirect.Failed() {
		out := m.rollbackLocked(e, redirect, err)
		c.mu.Unlock()
		c.onChange(m.listID)
		c.notify(m, out)
		return out
	}

	m.state = StateReconciled
	out := Outcome{State: StateReconciled, Redirect: redirect}
	refetch := false
	switch m.req.Action {
	case contract.ActionToggleItem, contract.ActionConfirmParent, contract.ActionConfirmUncheckParent:
		// The prediction already mirrors the server.
	case contract.ActionCreateItem:
		c.scheduleCreateResyncLocked(m.listID)
	default:
		refetch = e.inFlight == 0
	}
	c.mu.Unlock()

	if !refetch {
		if m.req.Action != contract.ActionCreateItem {
			c.logger.Debug("refetch skipped", "list_id", m.listID, "action", m.req.Action)
		}
		return out
	}
	target := redirect.ListID
	if target == "" {
		target = m.listID
	}
	out.Refetched = true
	// A failed resync leaves the entry stale; the mutation itself succeeded.
	_ = c.refetch(ctx, target)
	return out
}

// rollbackLocked restores the snapshot taken by Begin. Callers hold c.mu.
func (m *Mutation) rollbackLocked(e *entry, redirect contract.Redirect, err error) Outcome {
	e.view, e.loaded = m.snapshot, m.hadView
	// Invalidate refetches that may have read the predicted state.
	e.generation++
	m.state = StateRolledBack
	if err == nil {
		err = &AppError{Code: redirect.Error}
	}
	return Outcome{State: StateRolledBack, Redirect: redirect, Err: err}
}

func (c *Coordinator) notify(m *Mutation, out Outcome) {
	n := Notification{ListID: m.listID, Action: m.req.Action, Code: out.Redirect.Error, Err: out.Err}
	if n.Code != "" {
		n.Message = n.Code.Message()
	} else {
		n.Message = "could not reach the server, changes were not saved"
	}
	c.logger.Warn("mutation rolled back", "list_id", m.listID, "action", m.req.Action, "error", out.Err)
	c.notifier.Notify(n)
}

// Dispatch begins and commits req in one call.
func (c *Coordinator) Dispatch(ctx context.Context, listID string, req contract.MutationRequest) Outcome {
	return c.Begin(listID, req).Commit(ctx)
}
