package game

import (
	"fmt"
	"time"

	"github.com/podtracker/lifetracker-go/internal/game/counters"
)

// WarningKind names an advisory condition on a player.
type WarningKind string

const (
	WarningCommanderDamage WarningKind = "commander_damage"
	WarningPoison          WarningKind = "poison"
	WarningLife            WarningKind = "life"
)

// Warning is informational only; the engine never eliminates a player.
type Warning struct {
	Kind     WarningKind
	SourceID string // set for commander damage
	Value    int
	Message  string
}

// PlayerView is a player plus the advisory warnings that apply to them.
type PlayerView struct {
	Player
	Active     bool
	Monarch    bool
	Initiative bool
	Warnings   []Warning
}

// SessionView is a read-only rendering of the session at a point in time.
type SessionView struct {
	Players         [SeatCount]PlayerView
	TurnNumber      int
	SpellStackCount int
	IsDay           bool
	StartingLife    int
	Elapsed         time.Duration
	Log             []LogEntry
	CanUndo         bool
}

// View renders the current session. now is used for the elapsed game time.
func (e *Engine) View(now time.Time) SessionView {
	st := e.state.Clone()
	v := SessionView{
		TurnNumber:      st.TurnNumber,
		SpellStackCount: st.SpellStackCount,
		IsDay:           st.IsDay,
		StartingLife:    st.StartingLife,
		Elapsed:         Elapsed(st.GameStartTime, now),
		Log:             e.log.Entries(),
		CanUndo:         e.CanUndo(),
	}
	for i, p := range st.Players {
		v.Players[i] = PlayerView{
			Player:     p,
			Active:     i == st.ActivePlayerIndex,
			Monarch:    p.ID == st.MonarchPlayerID,
			Initiative: p.ID == st.InitiativePlayerID,
			Warnings:   Warnings(st, p),
		}
	}
	return v
}

// Warnings lists the advisory thresholds p has reached.
func Warnings(st SessionState, p Player) []Warning {
	var out []Warning
	if source, dmg := p.CommanderDamage.Max(); counters.CounterTypeCommanderDamage.Reached(dmg) {
		name := source
		if src, ok := st.PlayerByID(source); ok {
			name = src.Name
		}
		out = append(out, Warning{
			Kind:     WarningCommanderDamage,
			SourceID: source,
			Value:    dmg,
			Message:  fmt.Sprintf("%d commander damage from %s", dmg, name),
		})
	}
	if counters.CounterTypePoison.Reached(p.Poison) {
		out = append(out, Warning{
			Kind:    WarningPoison,
			Value:   p.Poison,
			Message: fmt.Sprintf("%d poison counters", p.Poison),
		})
	}
	if p.Life <= 0 {
		out = append(out, Warning{
			Kind:    WarningLife,
			Value:   p.Life,
			Message: fmt.Sprintf("life at %d", p.Life),
		})
	}
	return out
}

// Elapsed returns the game time since start, never negative.
func Elapsed(start, now time.Time) time.Duration {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	return now.Sub(start).Truncate(time.Second)
}
