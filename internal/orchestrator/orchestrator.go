// Package orchestrator drives the end-to-end clip flow from the popup
// context: request extraction, hold the pending candidate, and hand
// confirmed jobs to the background context for persistence.
//
// State graph:
//
//	Idle ──► Scraping ──► Scraped ──► Saving ──► Saved
//	             │                       │
//	             └───────► Error ◄───────┘
//
// requestScrape re-enters Scraping from every state; there is no terminal
// state, the machine lives as long as the UI session.
package orchestrator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"job-clipper-go/internal/bus"
	"job-clipper-go/internal/models"
)

// State of the clip session.
type State string

const (
	StateIdle     State = "Idle"
	StateScraping State = "Scraping"
	StateScraped  State = "Scraped"
	StateSaving   State = "Saving"
	StateSaved    State = "Saved"
	StateError    State = "Error"
)

// validTransitions lists every allowed (from → to) pair. Scraping is
// reachable from everywhere because a new scrape restarts the cycle.
var validTransitions = map[State][]State{
	StateIdle:     {StateScraping},
	StateScraping: {StateScraping, StateScraped, StateError},
	StateScraped:  {StateScraping, StateSaving},
	StateSaving:   {StateScraping, StateSaved, StateError},
	StateSaved:    {StateScraping},
	StateError:    {StateScraping},
}

func isTransitionAllowed(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Event kinds emitted to UI listeners, one per user-visible status change.
type EventKind string

const (
	EventScrapeStart   EventKind = "scrape:start"
	EventScrapeSuccess EventKind = "scrape:success"
	EventScrapeError   EventKind = "scrape:error"
	EventSaveStart     EventKind = "save:start"
	EventSaveSuccess   EventKind = "save:success"
	EventSaveError     EventKind = "save:error"
)

// Event carries the display payload for one status change. The UI derives
// everything it shows from these values and keeps no state of its own.
type Event struct {
	Kind     EventKind
	Company  string
	Position string
	Location string
	Message  string
	PageID   string
}

// Listener receives orchestrator events.
type Listener func(Event)

// FlowError is a user-facing failure of a scrape or save request. The same
// message is attached to the emitted error event.
type FlowError struct {
	Message string
}

func (e *FlowError) Error() string { return e.Message }

// Metrics counts session activity.
type Metrics struct {
	Scrapes  int
	Saves    int
	Failures int
}

// Orchestrator is the single writer to the pending-candidate slot. The UI
// serializes user-initiated requests, so at most one scrape or save is in
// flight at a time.
type Orchestrator struct {
	mu        sync.Mutex
	bus       *bus.Bus
	state     State
	pending   *models.RawRecord
	listeners []Listener
	metrics   Metrics
	logger    *zap.Logger
}

// New creates an orchestrator in the Idle state.
func New(b *bus.Bus, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		bus:    b,
		state:  StateIdle,
		logger: logger,
	}
}

// Subscribe adds a UI listener. Listeners are invoked synchronously in
// subscription order.
func (o *Orchestrator) Subscribe(l Listener) {
	o.listeners = append(o.listeners, l)
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Pending returns the held candidate, if any.
func (o *Orchestrator) Pending() (models.RawRecord, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending == nil {
		return models.RawRecord{}, false
	}
	return *o.pending, true
}

// Metrics returns the session counters.
func (o *Orchestrator) Metrics() Metrics {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.metrics
}

// RequestScrape restarts the cycle: it discards any previous candidate,
// gates on the page classifier, and asks the content context for a record.
// On failure the machine fully resolves to Error with a message before
// control returns.
func (o *Orchestrator) RequestScrape(ctx context.Context) error {
	o.transition(StateScraping)
	o.setPending(nil)
	o.emit(Event{Kind: EventScrapeStart})

	var check bus.CheckJobPageResponse
	if err := o.bus.Send(ctx, bus.ContextContent, bus.ActionCheckJobPage, nil, &check); err != nil {
		return o.toError(EventScrapeError, "could not reach the page: "+err.Error())
	}
	if !check.IsJobPage {
		return o.toError(EventScrapeError, "unsupported page")
	}

	var scrape bus.ScrapeJobResponse
	if err := o.bus.Send(ctx, bus.ContextContent, bus.ActionScrapeJob, nil, &scrape); err != nil {
		return o.toError(EventScrapeError, "could not reach the page: "+err.Error())
	}
	if !scrape.Success || scrape.Data == nil {
		msg := scrape.Error
		if msg == "" {
			msg = "failed to scrape this page"
		}
		return o.toError(EventScrapeError, msg)
	}

	o.setPending(scrape.Data)
	o.transition(StateScraped)
	o.bumpScrapes()
	o.logger.Info("scrape complete",
		zap.String("platform", check.Platform),
		zap.String("position", scrape.Data.Position))
	o.emit(Event{
		Kind:     EventScrapeSuccess,
		Company:  scrape.Data.Company,
		Position: scrape.Data.Position,
		Location: scrape.Data.Location,
	})
	return nil
}

// RequestSave hands the pending candidate to the background context. With no
// candidate held the request fails synchronously, without a transition, and
// the machine stays where it was.
func (o *Orchestrator) RequestSave(ctx context.Context) error {
	o.mu.Lock()
	if o.pending == nil || !isTransitionAllowed(o.state, StateSaving) {
		o.mu.Unlock()
		err := &FlowError{Message: "please scrape a job first"}
		o.emit(Event{Kind: EventSaveError, Message: err.Message})
		return err
	}
	job := models.Confirm(*o.pending)
	o.state = StateSaving
	o.mu.Unlock()

	o.emit(Event{Kind: EventSaveStart})

	var resp bus.SaveJobResponse
	if err := o.bus.Send(ctx, bus.ContextBackground, bus.ActionSaveJob, bus.SaveJobRequest{Job: job}, &resp); err != nil {
		return o.toError(EventSaveError, "could not reach the background worker: "+err.Error())
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "failed to save the job"
		}
		return o.toError(EventSaveError, msg)
	}

	o.transition(StateSaved)
	o.bumpSaves()
	o.emit(Event{Kind: EventSaveSuccess, PageID: resp.PageID})
	return nil
}

func (o *Orchestrator) transition(to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !isTransitionAllowed(o.state, to) {
		// Internal misuse; the public entry points gate every user path.
		o.logger.Warn("illegal transition",
			zap.String("from", string(o.state)),
			zap.String("to", string(to)))
		return
	}
	o.state = to
}

func (o *Orchestrator) toError(kind EventKind, msg string) error {
	o.mu.Lock()
	o.state = StateError
	o.metrics.Failures++
	o.mu.Unlock()
	o.emit(Event{Kind: kind, Message: msg})
	return &FlowError{Message: msg}
}

func (o *Orchestrator) setPending(rec *models.RawRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = rec
}

func (o *Orchestrator) bumpScrapes() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.metrics.Scrapes++
}

func (o *Orchestrator) bumpSaves() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.metrics.Saves++
}

func (o *Orchestrator) emit(ev Event) {
	for _, l := range o.listeners {
		l(ev)
	}
}
