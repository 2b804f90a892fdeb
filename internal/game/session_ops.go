package game

import (
	"fmt"

	"github.com/podtracker/lifetracker-go/internal/game/rules"
	"github.com/podtracker/lifetracker-go/internal/identity"
	"go.uber.org/zap"
)

// UndoLastAction restores the state captured before the most recent
// undoable operation. The snapshot is discarded; undo itself cannot be undone.
func (e *Engine) UndoLastAction() {
	policy := operationPolicies[OpUndoLastAction]
	snap, ok := e.undo.pop()
	if !ok {
		e.logger.Debug("operation ignored", zap.String("operation", string(OpUndoLastAction)))
		return
	}
	before := e.state.seats()
	e.state.restore(snap)

	// Names and colors travel with the snapshot, so undo can be a cosmetic change.
	if e.sink != nil && e.state.seats() != before {
		e.sink.Submit(e.Identity())
	}

	ch := change{
		action:   "Undo",
		category: CategorySystem,
		event:    rules.EventUndo,
	}
	var entry LogEntry
	if policy.Logged {
		entry = e.newEntry(ch)
		e.log.prepend(entry)
	}

	e.logger.Debug("operation applied",
		zap.String("operation", string(OpUndoLastAction)),
		zap.Int("undo_depth", e.undo.Len()),
		zap.Int("turn", e.state.TurnNumber),
	)
	e.publish(ch, entry.Timestamp)
}

// ResetGame starts a new game. Seat names, colors and the configured
// starting life carry over; everything else returns to defaults, the log is
// replaced by a single entry and the undo stack is emptied.
func (e *Engine) ResetGame() {
	policy := operationPolicies[OpResetGame]
	e.state = freshState(e.state.seats(), e.state.StartingLife, e.now())
	e.undo.clear()

	ch := change{
		action:   "New game started",
		category: CategorySystem,
		event:    rules.EventGameReset,
		amount:   e.state.StartingLife,
	}
	var entry LogEntry
	if policy.Logged {
		entry = e.newEntry(ch)
		e.log.reset(entry)
	} else {
		e.log.clear()
	}

	e.logger.Info("new game started",
		zap.Int("starting_life", e.state.StartingLife),
		zap.Time("started_at", e.state.GameStartTime),
	)
	e.publish(ch, entry.Timestamp)
}

// UpdatePlayerName renames a player. Not logged and not undoable.
func (e *Engine) UpdatePlayerName(playerID, name string) {
	e.apply(OpUpdatePlayerName, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		p.Name = name
		return change{
			action:   fmt.Sprintf("name %q", name),
			playerID: p.ID,
			event:    rules.EventIdentityChanged,
		}, true
	})
}

// UpdatePlayerColor recolors a player. Not logged and not undoable.
func (e *Engine) UpdatePlayerColor(playerID, color string) {
	e.apply(OpUpdatePlayerColor, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		p.Color = color
		return change{
			action:   fmt.Sprintf("color %q", color),
			playerID: p.ID,
			event:    rules.EventIdentityChanged,
		}, true
	})
}

// UpdateStartingLife sets the life total used by the next ResetGame. The
// game in progress is unaffected. Non-positive values are ignored.
func (e *Engine) UpdateStartingLife(life int) {
	e.apply(OpUpdateStartingLife, func(st *SessionState) (change, bool) {
		if life <= 0 {
			return change{}, false
		}
		st.StartingLife = life
		return change{
			action: fmt.Sprintf("starting life %d", life),
			event:  rules.EventIdentityChanged,
			amount: life,
		}, true
	})
}

// AddDiceRollLog records a die roll in the action log. It touches neither
// the session state nor the undo stack.
func (e *Engine) AddDiceRollLog(sides, result int) {
	e.apply(OpAddDiceRollLog, func(st *SessionState) (change, bool) {
		return change{
			action:   fmt.Sprintf("d%d → %d", sides, result),
			category: CategoryDice,
			event:    rules.EventDiceRolled,
			amount:   result,
		}, true
	})
}

var _ IdentitySink = (*identity.Persister)(nil)
