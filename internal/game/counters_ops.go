package game

import (
	"fmt"

	"github.com/podtracker/lifetracker-go/internal/game/counters"
	"github.com/podtracker/lifetracker-go/internal/game/rules"
)

// AdjustLife adds delta to a player's life. Life is never clamped.
func (e *Engine) AdjustLife(playerID string, delta int) {
	e.apply(OpAdjustLife, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		old := p.Life
		p.Life = old + delta
		return change{
			action:     fmt.Sprintf("%s life (%d → %d)", signed(delta), old, p.Life),
			category:   CategoryLife,
			playerID:   p.ID,
			playerName: p.Name,
			delta:      deltaOf(delta),
			event:      rules.EventLifeChanged,
			amount:     delta,
		}, true
	})
}

// SetLife sets a player's life to value.
func (e *Engine) SetLife(playerID string, value int) {
	e.apply(OpSetLife, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		old := p.Life
		p.Life = value
		return change{
			action:     fmt.Sprintf("Life set: %d → %d", old, value),
			category:   CategoryLife,
			playerID:   p.ID,
			playerName: p.Name,
			delta:      deltaOf(value - old),
			event:      rules.EventLifeChanged,
			amount:     value - old,
		}, true
	})
}

// AdjustPoison adds delta to a player's poison counters, floored at zero.
func (e *Engine) AdjustPoison(playerID string, delta int) {
	e.adjustPlayerCounter(OpAdjustPoison, playerID, delta, counters.CounterTypePoison)
}

// AdjustExperience adds delta to a player's experience counters, floored at zero.
func (e *Engine) AdjustExperience(playerID string, delta int) {
	e.adjustPlayerCounter(OpAdjustExperience, playerID, delta, counters.CounterTypeExperience)
}

// AdjustEnergy adds delta to a player's energy counters, floored at zero.
func (e *Engine) AdjustEnergy(playerID string, delta int) {
	e.adjustPlayerCounter(OpAdjustEnergy, playerID, delta, counters.CounterTypeEnergy)
}

type counterField struct {
	category Category
	event    rules.EventType
	field    func(p *Player) *int
}

var playerCounterFields = map[counters.CounterType]counterField{
	counters.CounterTypePoison: {
		category: CategoryPoison,
		event:    rules.EventPoisonChanged,
		field:    func(p *Player) *int { return &p.Poison },
	},
	counters.CounterTypeExperience: {
		category: CategoryExperience,
		event:    rules.EventExperienceChanged,
		field:    func(p *Player) *int { return &p.Experience },
	},
	counters.CounterTypeEnergy: {
		category: CategoryEnergy,
		event:    rules.EventEnergyChanged,
		field:    func(p *Player) *int { return &p.Energy },
	},
}

func (e *Engine) adjustPlayerCounter(op Operation, playerID string, delta int, kind counters.CounterType) {
	cf := playerCounterFields[kind]
	e.apply(op, func(st *SessionState) (change, bool) {
		p := st.player(playerID)
		if p == nil {
			return change{}, false
		}
		value := cf.field(p)
		counter := kind.CreateInstance(*value)
		old, next := counter.Adjust(delta)
		*value = next
		return change{
			action:     fmt.Sprintf("%s %s (%d → %d)", signed(delta), kind, old, next),
			category:   cf.category,
			playerID:   p.ID,
			playerName: p.Name,
			delta:      deltaOf(delta),
			event:      cf.event,
			amount:     next - old,
		}, true
	})
}

// AdjustCommanderDamage changes the damage target has received from source's
// commander, floored at zero, and moves target's life by the opposite of the
// effective change. Lowering the damage restores the same amount of life.
// Source may equal target.
func (e *Engine) AdjustCommanderDamage(targetID, sourceID string, delta int) {
	e.apply(OpAdjustCommanderDamage, func(st *SessionState) (change, bool) {
		target := st.player(targetID)
		source := st.player(sourceID)
		if target == nil || source == nil {
			return change{}, false
		}
		if target.CommanderDamage == nil {
			target.CommanderDamage = counters.Tally{}
		}
		oldDmg, newDmg := target.CommanderDamage.Adjust(source.ID, delta)
		lifeDelta := -(newDmg - oldDmg)
		oldLife := target.Life
		target.Life = oldLife + lifeDelta
		return change{
			action: fmt.Sprintf("Cmdr dmg from %s: %d → %d (life %d → %d)",
				source.Name, oldDmg, newDmg, oldLife, target.Life),
			category:   CategoryCommander,
			playerID:   target.ID,
			playerName: target.Name,
			sourceID:   source.ID,
			delta:      deltaOf(delta),
			event:      rules.EventCommanderDamage,
			amount:     newDmg - oldDmg,
		}, true
	})
}
