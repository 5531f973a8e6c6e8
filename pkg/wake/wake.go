// Package wake is the platform wake-scheduling collaborator: register a
// callback for an instant, with best-effort delivery. Callbacks may be
// delayed or dropped, so callers reconcile Pending against their own
// desired state instead of trusting delivery.
package wake

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/borgmon/daybreak/pkg/models"
)

// Request is one pending wake callback.
type Request struct {
	ID        string
	TriggerAt time.Time
	Payload   models.FiringPayload
}

// Service abstracts the platform scheduler.
type Service interface {
	// Submit registers a request, replacing any pending request with
	// the same ID.
	Submit(req Request) error
	// Cancel removes a pending request. Unknown IDs are a no-op.
	Cancel(id string)
	// Pending returns a snapshot of all requests this app owns.
	Pending() []Request
}

// TimerService implements Service with in-process timers. A request
// whose trigger is already past fires immediately.
type TimerService struct {
	mu      sync.Mutex
	deliver func(models.FiringPayload)
	pending map[string]*pendingRequest
	stopped bool
}

type pendingRequest struct {
	req   Request
	timer *time.Timer
}

// NewTimerService creates a timer service delivering fired payloads to
// sink. The sink runs on a timer goroutine, so it must hand off to
// whatever serialization its owner uses.
func NewTimerService(sink func(models.FiringPayload)) *TimerService {
	return &TimerService{
		deliver: sink,
		pending: make(map[string]*pendingRequest),
	}
}

func (ts *TimerService) Submit(req Request) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.stopped {
		return nil
	}

	if old, exists := ts.pending[req.ID]; exists {
		old.timer.Stop()
		delete(ts.pending, req.ID)
	}

	id := req.ID
	p := &pendingRequest{req: req}
	p.timer = time.AfterFunc(time.Until(req.TriggerAt), func() {
		ts.fire(id)
	})
	ts.pending[id] = p
	return nil
}

func (ts *TimerService) fire(id string) {
	ts.mu.Lock()
	p, exists := ts.pending[id]
	if exists {
		delete(ts.pending, id)
	}
	stopped := ts.stopped
	ts.mu.Unlock()

	if !exists || stopped {
		return
	}

	log.Printf("Wake request %s fired", id)
	ts.deliver(p.req.Payload)
}

func (ts *TimerService) Cancel(id string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if p, exists := ts.pending[id]; exists {
		p.timer.Stop()
		delete(ts.pending, id)
	}
}

func (ts *TimerService) Pending() []Request {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	reqs := make([]Request, 0, len(ts.pending))
	for _, p := range ts.pending {
		reqs = append(reqs, p.req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].TriggerAt.Before(reqs[j].TriggerAt) })
	return reqs
}

// Stop cancels all pending requests; used on shutdown.
func (ts *TimerService) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.stopped = true
	for id, p := range ts.pending {
		p.timer.Stop()
		delete(ts.pending, id)
	}
}
