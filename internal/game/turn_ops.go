package game

import (
	"fmt"

	"github.com/podtracker/lifetracker-go/internal/game/counters"
	"github.com/podtracker/lifetracker-go/internal/game/rules"
)

// ToggleLandPlayed flips whether the player has used their land drop.
func (e *Engine) ToggleLandPlayed(playerID string) {
	e.apply(OpToggleLandPlayed, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		p.LandPlayedThisTurn = !p.LandPlayedThisTurn
		action := "Land drop freed"
		if p.LandPlayedThisTurn {
			action = "Land drop used"
		}
		return change{
			action:     action,
			category:   CategoryLand,
			playerID:   p.ID,
			playerName: p.Name,
			event:      rules.EventLandToggled,
		}, true
	})
}

// AdjustCardsDrawn adds delta to the cards drawn this turn, floored at zero.
func (e *Engine) AdjustCardsDrawn(playerID string, delta int) {
	e.apply(OpAdjustCardsDrawn, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		counter := counters.CounterTypeCardsDrawn.CreateInstance(p.CardsDrawnThisTurn)
		old, next := counter.Adjust(delta)
		p.CardsDrawnThisTurn = next

		var action string
		if delta > 0 {
			plural := ""
			if delta > 1 {
				plural = "s"
			}
			action = fmt.Sprintf("Drew %d card%s (%d this turn)", delta, plural, next)
		} else if delta < 0 {
			action = fmt.Sprintf("Draw count -%d (%d this turn)", -delta, next)
		} else {
			action = fmt.Sprintf("Draw count 0 (%d this turn)", next)
		}
		return change{
			action:     action,
			category:   CategoryDraw,
			playerID:   p.ID,
			playerName: p.Name,
			delta:      deltaOf(delta),
			event:      rules.EventCardsDrawn,
			amount:     next - old,
		}, true
	})
}

// AdjustSpellStack adds delta to the spell stack count, floored at zero.
func (e *Engine) AdjustSpellStack(delta int) {
	e.apply(OpAdjustSpellStack, func(st *SessionState) (change, bool) {
		counter := counters.CounterTypeSpellStack.CreateInstance(st.SpellStackCount)
		old, next := counter.Adjust(delta)
		st.SpellStackCount = next
		return change{
			action:   fmt.Sprintf("Stack: %d → %d", old, next),
			category: CategoryStack,
			event:    rules.EventSpellStackChanged,
			amount:   next,
		}, true
	})
}

// ClearSpellStack empties the spell stack. Does nothing when it is already empty.
func (e *Engine) ClearSpellStack() {
	e.apply(OpClearSpellStack, func(st *SessionState) (change, bool) {
		if st.SpellStackCount == 0 {
			return change{}, false
		}
		st.SpellStackCount = 0
		return change{
			action:   "Stack resolved (cleared)",
			category: CategoryStack,
			event:    rules.EventSpellStackChanged,
		}, true
	})
}

// NextTurn passes the turn to the next seat. Wrapping to seat 0 starts a new
// round. The incoming player's per-turn flags and the spell stack are reset.
func (e *Engine) NextTurn() {
	e.apply(OpNextTurn, func(st *SessionState) (change, bool) {
		tm := rules.ResumeTurnManager(SeatCount, st.ActivePlayerIndex, st.TurnNumber)
		seat, newRound := tm.AdvanceTurn()

		st.ActivePlayerIndex = seat
		st.TurnNumber = tm.TurnNumber()
		st.SpellStackCount = 0
		next := &st.Players[seat]
		next.LandPlayedThisTurn = false
		next.CardsDrawnThisTurn = 0

		round := ""
		if newRound {
			round = " (new round)"
		}
		return change{
			action:   fmt.Sprintf("Turn %d%s: %s", st.TurnNumber, round, next.Name),
			category: CategoryTurn,
			playerID: next.ID,
			event:    rules.EventTurnAdvanced,
			amount:   st.TurnNumber,
		}, true
	})
}

// SetActivePlayer moves the turn pointer to seat without starting a turn.
// It is logged but not undoable. Out-of-range seats are ignored.
func (e *Engine) SetActivePlayer(seat int) {
	e.apply(OpSetActivePlayer, func(st *SessionState) (change, bool) {
		tm := rules.ResumeTurnManager(SeatCount, st.ActivePlayerIndex, st.TurnNumber)
		if !tm.SetActiveSeat(seat) {
			return change{}, false
		}
		st.ActivePlayerIndex = tm.ActiveSeat()
		p := st.Players[seat]
		return change{
			action:   fmt.Sprintf("Active player → %s", p.Name),
			category: CategoryTurn,
			playerID: p.ID,
			event:    rules.EventActivePlayerChanged,
			amount:   seat,
		}, true
	})
}

// ToggleDayNight flips between day and night.
func (e *Engine) ToggleDayNight() {
	e.apply(OpToggleDayNight, func(st *SessionState) (change, bool) {
		st.IsDay = !st.IsDay
		action := "Night"
		if st.IsDay {
			action = "Day"
		}
		return change{
			action:   action,
			category: CategorySystem,
			event:    rules.EventDayNightChanged,
		}, true
	})
}

// SetMonarch gives the monarch to playerID, replacing any previous holder.
// An empty id removes the monarch; an unknown id is ignored.
func (e *Engine) SetMonarch(playerID string) {
	e.apply(OpSetMonarch, func(st *SessionState) (change, bool) {
		return setHolder(st, &st.MonarchPlayerID, playerID,
			"%s is the Monarch", "Monarch removed", rules.EventMonarchChanged)
	})
}

// SetInitiative gives the initiative to playerID, replacing any previous holder.
// An empty id removes the initiative; an unknown id is ignored.
func (e *Engine) SetInitiative(playerID string) {
	e.apply(OpSetInitiative, func(st *SessionState) (change, bool) {
		return setHolder(st, &st.InitiativePlayerID, playerID,
			"%s has the Initiative", "Initiative removed", rules.EventInitiativeChanged)
	})
}

func setHolder(st *SessionState, slot *string, playerID, heldFormat, removed string, event rules.EventType) (change, bool) {
	if playerID == "" {
		*slot = ""
		return change{action: removed, category: CategorySystem, event: event}, true
	}
	p := st.player(playerID)
	if p == nil {
		return change{}, false
	}
	*slot = p.ID
	return change{
		action:   fmt.Sprintf(heldFormat, p.Name),
		category: CategorySystem,
		playerID: p.ID,
		event:    event,
	}, true
}

// ToggleEliminated flips a player's eliminated flag. Elimination is
// informational; eliminated players can still be changed.
func (e *Engine) ToggleEliminated(playerID string) {
	e.apply(OpToggleEliminated, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		p.IsEliminated = !p.IsEliminated
		action := fmt.Sprintf("%s returned", p.Name)
		if p.IsEliminated {
			action = fmt.Sprintf("%s eliminated", p.Name)
		}
		return change{
			action:     action,
			category:   CategorySystem,
			playerID:   p.ID,
			playerName: p.Name,
			event:      rules.EventEliminationToggled,
		}, true
	})
}
