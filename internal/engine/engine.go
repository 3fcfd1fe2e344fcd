package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Popov85/challenge-graph/internal/graph"
	"github.com/Popov85/challenge-graph/internal/record"
	"github.com/Popov85/challenge-graph/internal/store"
)

// Journal records sessions and accepted operations.
// Implemented by *store.Store.
type Journal interface {
	LastSeq(ctx context.Context) (int64, error)
	WriteSession(ctx context.Context, sess store.Session) error
	WriteOperation(ctx context.Context, op record.Operation) error
}

// Observer receives apply results and graph sizes.
// Implemented by *metrics.Metrics.
type Observer interface {
	ObserveApply(result string, elapsed time.Duration)
	ObserveGraph(stats graph.Stats)
	ObserveJournalError()
}

// ResultRejected is the Observer result label for rejected operations.
const ResultRejected = "rejected"

// Receipt describes an accepted operation.
type Receipt struct {
	ID        string        `json:"id"`
	Seq       int64         `json:"seq"`
	SessionID string        `json:"session_id"`
	RequestID string        `json:"request_id"`
	Outcome   graph.Outcome `json:"-"`
}

// Engine serializes star operations against one graph.
//
// Thread-safety model:
//   - Apply: exclusive; graph mutation, seq stamping and the journal write
//     happen under one lock so journal order equals mutation order
//   - Connections, Component, Stats: safe from any goroutine, served by
//     the graph's read lock without waiting on the journal
type Engine struct {
	mu sync.Mutex

	graph     *graph.Graph
	clock     *Clock
	sessionID string
	requests  IDGenerator
	journal   Journal
	observer  Observer
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal records accepted operations to j.
func WithJournal(j Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithObserver reports apply results and graph sizes to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock replaces the logical clock.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSessionID fixes the session id instead of generating a UUIDv7.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.sessionID = id }
}

// WithRequestIDs sets the generator used when a request carries no id.
func WithRequestIDs(gen IDGenerator) Option {
	return func(e *Engine) { e.requests = gen }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over an empty graph.
func New(opts ...Option) *Engine {
	e := &Engine{
		graph:    graph.New(),
		clock:    NewClock(),
		requests: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sessionID == "" {
		e.sessionID = UUIDv7Generator{}.Generate()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	return e
}

// Start opens the session in the journal.
//
// The clock resumes after the highest seq already journaled so seq stays
// unique across sessions sharing one database. The graph itself always
// starts empty. Start is a no-op without a journal.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.journal == nil {
		return nil
	}

	last, err := e.journal.LastSeq(ctx)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if last > e.clock.Current() {
		e.clock.Reset(last)
	}

	sess := store.Session{
		ID:            e.sessionID,
		StartSeq:      e.clock.Current(),
		EngineVersion: record.EngineVersion,
	}
	if err := e.journal.WriteSession(ctx, sess); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	e.logger.Info("session started", "session", e.sessionID, "start_seq", sess.StartSeq)
	return nil
}

// Apply connects anchor to every target.
//
// A rejected operation returns the graph's *graph.ValidationError, leaves
// the graph untouched, consumes no seq and is not journaled.
func (e *Engine) Apply(ctx context.Context, anchor string, targets []string) (Receipt, error) {
	started := time.Now()

	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = e.requests.Generate()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	outcome, err := e.graph.Apply(anchor, targets)
	if err != nil {
		e.observer.ObserveApply(ResultRejected, time.Since(started))
		e.logger.Debug("operation rejected",
			"request", requestID,
			"anchor", anchor,
			"reason", graph.ReasonOf(err),
		)
		return Receipt{RequestID: requestID}, err
	}

	op := record.Operation{
		Seq:           e.clock.Next(),
		SessionID:     e.sessionID,
		RequestID:     requestID,
		Anchor:        anchor,
		Targets:       nonEmpty(targets),
		Kind:          string(outcome.Kind),
		Added:         outcome.Added,
		EngineVersion: record.EngineVersion,
	}
	op.ID, err = record.OperationID(op.SessionID, op.Seq, op.Anchor, op.Targets)
	if err != nil {
		// Node names are plain strings; this only fails on a broken encoder.
		e.logger.Error("operation id failed", "seq", op.Seq, "error", err)
	}

	if e.journal != nil && op.ID != "" {
		if err := e.journal.WriteOperation(ctx, op); err != nil {
			// Log and continue: the graph already reflects the operation.
			e.observer.ObserveJournalError()
			e.logger.Error("journal write failed",
				"seq", op.Seq,
				"id", op.ID,
				"request", requestID,
				"error", err,
			)
		}
	}

	e.observer.ObserveApply(op.Kind, time.Since(started))
	e.observer.ObserveGraph(e.graph.Stats())

	e.logger.Debug("operation applied",
		"seq", op.Seq,
		"request", requestID,
		"anchor", anchor,
		"kind", op.Kind,
		"added", op.Added,
		"component_size", outcome.ComponentSize,
	)

	return Receipt{
		ID:        op.ID,
		Seq:       op.Seq,
		SessionID: op.SessionID,
		RequestID: requestID,
		Outcome:   outcome,
	}, nil
}

// Connections returns every directed connection sorted by (from, to).
func (e *Engine) Connections() []graph.Connection {
	return e.graph.Connections()
}

// Component returns the sorted component containing node.
func (e *Engine) Component(node string) ([]string, bool) {
	return e.graph.Component(node)
}

// Stats returns the current graph size.
func (e *Engine) Stats() graph.Stats {
	return e.graph.Stats()
}

// SessionID returns the id of the running session.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Seq returns the seq of the last accepted operation.
func (e *Engine) Seq() int64 {
	return e.clock.Current()
}

func nonEmpty(targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

type nopObserver struct{}

func (nopObserver) ObserveApply(string, time.Duration) {}
func (nopObserver) ObserveGraph(graph.Stats) {}
func (nopObserver) ObserveJournalError() {}
