package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/podtracker/lifetracker-go/internal/game/rules"
	"github.com/podtracker/lifetracker-go/internal/identity"
	"go.uber.org/zap"
)

// IdentitySink receives the cosmetic identity after every cosmetic change.
// Implementations must not block; the engine does not wait for them.
type IdentitySink interface {
	Submit(id identity.Identity)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source for log entries and game start time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides how log entry ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// WithIdentitySink sets where cosmetic changes are sent for persistence.
func WithIdentitySink(sink IdentitySink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithEventBus publishes committed changes on bus instead of a private bus.
func WithEventBus(bus *rules.EventBus) Option {
	return func(e *Engine) {
		if bus != nil {
			e.bus = bus
		}
	}
}

// Engine owns one game session: its state, action log and undo stack.
//
// Every operation is a total, synchronous state transition. Unknown ids and
// redundant requests are dropped silently. The engine is not safe for
// concurrent use; callers drive it from a single goroutine.
type Engine struct {
	state  SessionState
	log    *ActionLog
	undo   *UndoStack
	logger *zap.Logger
	bus    *rules.EventBus
	sink   IdentitySink
	now    func() time.Time
	newID  func() string
}

// NewEngine starts a session seeded from the stored cosmetic identity.
func NewEngine(id identity.Identity, opts ...Option) *Engine {
	e := &Engine{
		log:    newActionLog(MaxLogEntries),
		undo:   newUndoStack(MaxUndoSnapshots),
		logger: zap.NewNop(),
		bus:    rules.NewEventBus(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = newSessionState(id, e.now())
	return e
}

// change is what an operation's compute step reports back for recording.
type change struct {
	action     string
	category   Category
	playerID   string
	playerName string
	sourceID   string
	delta      *int
	event      rules.EventType
	amount     int
}

// apply runs the shared operation contract: snapshot, compute, log, push.
// compute must report ok=false before touching state when the request is
// to be dropped.
func (e *Engine) apply(op Operation, compute func(st *SessionState) (change, bool)) {
	policy := operationPolicies[op]

	var snap Snapshot
	if policy.Snapshotted {
		snap = e.state.snapshot()
	}

	ch, ok := compute(&e.state)
	if !ok {
		e.logger.Debug("operation ignored", zap.String("operation", string(op)))
		return
	}

	var entry LogEntry
	if policy.Logged {
		entry = e.newEntry(ch)
		e.log.prepend(entry)
	}
	if policy.Snapshotted {
		e.undo.push(snap)
	}
	if policy.Cosmetic && e.sink != nil {
		e.sink.Submit(e.Identity())
	}

	e.logger.Debug("operation applied",
		zap.String("operation", string(op)),
		zap.String("player_id", ch.playerID),
		zap.String("action", ch.action),
		zap.Int("undo_depth", e.undo.Len()),
	)
	e.publish(ch, entry.Timestamp)
}

func (e *Engine) newEntry(ch change) LogEntry {
	return LogEntry{
		ID:         e.newID(),
		Timestamp:  e.now(),
		PlayerName: ch.playerName,
		Action:     ch.action,
		Category:   ch.category,
		Delta:      ch.delta,
	}
}

func (e *Engine) publish(ch change, at time.Time) {
	if ch.event == "" {
		return
	}
	if at.IsZero() {
		at = e.now()
	}
	ev := rules.NewEvent(ch.event, ch.playerID, ch.amount, ch.action)
	ev.SourceID = ch.sourceID
	ev.Timestamp = at
	e.bus.Publish(ev)
}

// Bus returns the event bus committed changes are published on.
func (e *Engine) Bus() *rules.EventBus {
	return e.bus
}

// State returns a deep copy of the current session state.
func (e *Engine) State() SessionState {
	return e.state.Clone()
}

// Log returns a copy of the action log, newest first.
func (e *Engine) Log() []LogEntry {
	return e.log.Entries()
}

// ActionLog exposes the log for read-only queries.
func (e *Engine) ActionLog() *ActionLog {
	return e.log
}

// UndoDepth returns how many operations can currently be undone.
func (e *Engine) UndoDepth() int {
	return e.undo.Len()
}

// CanUndo reports whether UndoLastAction would do anything.
func (e *Engine) CanUndo() bool {
	return e.undo.Len() > 0
}

// Identity returns the persisted cosmetic identity of the session.
func (e *Engine) Identity() identity.Identity {
	id := identity.Identity{
		Players:      make([]identity.PlayerIdentity, SeatCount),
		StartingLife: e.state.StartingLife,
	}
	for i, p := range e.state.Players {
		id.Players[i] = identity.PlayerIdentity{ID: p.ID, Name: p.Name, Color: p.Color}
	}
	return id
}

func deltaOf(v int) *int {
	return &v
}

func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}
