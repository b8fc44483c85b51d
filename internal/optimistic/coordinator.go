// Package optimistic keeps a client-side cache of list views in step with
// the server while mutations are in flight. Each mutation is predicted
// locally, sent, and then either kept, rolled back, or followed by a
// canonical refetch.
package optimistic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Transport is the coordinator's view of the server.
type Transport interface {
	Mutate(ctx context.Context, listID string, req contract.MutationRequest) (contract.MutationResponse, error)
	FetchList(ctx context.Context, listID string) (*contract.ListReadResponse, error)
}

// Notification is a user-visible error raised when a mutation is rolled back.
type Notification struct {
	ListID  string
	Action  contract.Action
	Code    contract.ErrorCode
	Message string
	Err     error
}

type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// View is one cached list page. ActiveList is nil until loaded, and after a
// predicted list deletion.
type View struct {
	Lists      []domain.ListSummary
	ActiveList *domain.List
	Stale      bool
}

func viewFromResponse(resp *contract.ListReadResponse) View {
	return View{Lists: resp.Lists, ActiveList: resp.ActiveList}
}

// DefaultCreateDebounce is the quiet period after the last item creation
// before the list is resynced.
const DefaultCreateDebounce = 300 * time.Millisecond

type Options struct {
	CreateDebounce time.Duration
	Notifier       Notifier
	Logger         *slog.Logger
	// NewID names optimistic items and lists until the server's ids arrive.
	NewID func() string
	// OnChange is called, outside the coordinator's lock, after every write
	// to a cached view.
	OnChange func(listID string)
}

type entry struct {
	view       View
	loaded     bool
	generation uint64
	inFlight   int
}

// Coordinator is the single writer of the cached views.
type Coordinator struct {
	transport Transport
	notifier  Notifier
	logger    *slog.Logger
	debounce  time.Duration
	newID     func() string
	onChange  func(string)

	mu      sync.Mutex
	entries map[string]*entry
	timers  map[string]*time.Timer
	closed  bool

	fetches singleflight.Group
}

func New(transport Transport, opts Options) *Coordinator {
	c := &Coordinator{
		transport: transport,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		debounce:  opts.CreateDebounce,
		newID:     opts.NewID,
		onChange:  opts.OnChange,
		entries:   make(map[string]*entry),
		timers:    make(map[string]*time.Timer),
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(Notification) {})
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.debounce <= 0 {
		c.debounce = DefaultCreateDebounce
	}
	if c.newID == nil {
		c.newID = func() string { return "tmp-" + uuid.New().String() }
	}
	if c.onChange == nil {
		c.onChange = func(string) {}
	}
	return c
}

// entryLocked returns the entry for listID, creating it. Callers hold c.mu.
func (c *Coordinator) entryLocked(listID string) *entry {
	e, ok := c.entries[listID]
	if !ok {
		e = &entry{}
		c.entries[listID] = e
	}
	return e
}

// View returns the cached view of listID.
func (c *Coordinator) View(listID string) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[listID]
	if !ok || !e.loaded {
		return View{}, false
	}
	return e.view, true
}

// InFlight returns the number of unsettled mutations against listID.
func (c *Coordinator) InFlight(listID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[listID]; ok {
		return e.inFlight
	}
	return 0
}

// Seed stores v as the cached view of listID.
func (c *Coordinator) Seed(listID string, v View) {
	c.mu.Lock()
	e := c.entryLocked(listID)
	e.view = v
	e.loaded = true
	c.mu.Unlock()
	c.onChange(listID)
}

// Invalidate marks the cached view of listID stale so the next Load fetches.
func (c *Coordinator) Invalidate(listID string) {
	c.mu.Lock()
	e, ok := c.entries[listID]
	if ok {
		e.view.Stale = true
	}
	c.mu.Unlock()
	if ok {
		c.onChange(listID)
	}
}

// Load returns the cached view, fetching it first when missing or stale.
func (c *Coordinator) Load(ctx context.Context, listID string) (View, error) {
	if v, ok := c.View(listID); ok && !v.Stale {
		return v, nil
	}
	if err := c.refetch(ctx, listID); err != nil {
		return View{}, err
	}
	v, _ := c.View(listID)
	return v, nil
}

// Refresh fetches listID unconditionally.
func (c *Coordinator) Refresh(ctx context.Context, listID string) error {
	return c.refetch(ctx, listID)
}

// refetch loads the canonical view. The result is dropped when a mutation
// began on the key after the fetch started; a failure marks the key stale.
func (c *Coordinator) refetch(ctx context.Context, listID string) error {
	c.mu.Lock()
	gen := c.entryLocked(listID).generation
	c.mu.Unlock()

	// Fetches are shared only within one generation, so a refetch issued
	// after a mutation never joins one started before it.
	key := fmt.Sprintf("%s@%d", listID, gen)
	v, err, _ := c.fetches.Do(key, func() (any, error) {
		return c.transport.FetchList(ctx, listID)
	})
	if err != nil {
		c.logger.Warn("refetch failed", "list_id", listID, "error", err)
		c.Invalidate(listID)
		return fmt.Errorf("fetching list %s: %w", listID, err)
	}

	c.mu.Lock()
	e := c.entryLocked(listID)
	if e.generation != gen {
		c.mu.Unlock()
		c.logger.Debug("refetch superseded", "list_id", listID)
		return nil
	}
	e.view = viewFromResponse(v.(*contract.ListReadResponse))
	e.loaded = true
	c.mu.Unlock()
	c.onChange(listID)
	return nil
}

// Close stops pending debounced refetches. Mutations already begun still
// settle.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}

// scheduleCreateResyncLocked (re)arms the trailing-edge timer of listID. Callers
// hold c.mu.
func (c *Coordinator) scheduleCreateResyncLocked(listID string) {
	if c.closed {
		return
	}
	if t, ok := c.timers[listID]; ok {
		t.Stop()
	}
	c.timers[listID] = time.AfterFunc(c.debounce, func() { c.fireCreateResync(listID) })
}

func (c *Coordinator) fireCreateResync(listID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	delete(c.timers, listID)
	if c.entryLocked(listID).inFlight > 0 {
		// Creations are still unsettled; look again after another quiet period.
		c.scheduleCreateResyncLocked(listID)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	_ = c.refetch(context.Background(), listID)
}
