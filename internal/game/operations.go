package game

import "slices"

// Operation names every command the engine accepts.
type Operation string

const (
	OpAdjustLife            Operation = "adjust_life"
	OpSetLife               Operation = "set_life"
	OpAdjustPoison          Operation = "adjust_poison"
	OpAdjustExperience      Operation = "adjust_experience"
	OpAdjustEnergy          Operation = "adjust_energy"
	OpAdjustCommanderDamage Operation = "adjust_commander_damage"
	OpToggleLandPlayed      Operation = "toggle_land_played"
	OpAdjustCardsDrawn      Operation = "adjust_cards_drawn"
	OpAdjustSpellStack      Operation = "adjust_spell_stack"
	OpClearSpellStack       Operation = "clear_spell_stack"
	OpNextTurn              Operation = "next_turn"
	OpSetActivePlayer       Operation = "set_active_player"
	OpToggleDayNight        Operation = "toggle_day_night"
	OpSetMonarch            Operation = "set_monarch"
	OpSetInitiative         Operation = "set_initiative"
	OpToggleEliminated      Operation = "toggle_eliminated"
	OpUndoLastAction        Operation = "undo_last_action"
	OpResetGame             Operation = "reset_game"
	OpUpdatePlayerName      Operation = "update_player_name"
	OpUpdatePlayerColor     Operation = "update_player_color"
	OpUpdateStartingLife    Operation = "update_starting_life"
	OpAddDiceRollLog        Operation = "add_dice_roll_log"
)

// Policy states what committing an operation records.
type Policy struct {
	// Logged operations append one action log entry.
	Logged bool
	// Snapshotted operations push the pre-mutation state onto the undo stack.
	Snapshotted bool
	// Cosmetic operations change persisted identity and are handed to the
	// identity sink instead of the history.
	Cosmetic bool
}

// UndoLastAction and ResetGame do not go through the shared apply path, but
// they read Logged from this table. UndoLastAction pops a snapshot and never
// pushes one. ResetGame replaces the log with its single entry, or empties it
// when not logged, and always empties the undo stack.
var operationPolicies = map[Operation]Policy{
	OpAdjustLife:            {Logged: true, Snapshotted: true},
	OpSetLife:               {Logged: true, Snapshotted: true},
	OpAdjustPoison:          {Logged: true, Snapshotted: true},
	OpAdjustExperience:      {Logged: true, Snapshotted: true},
	OpAdjustEnergy:          {Logged: true, Snapshotted: true},
	OpAdjustCommanderDamage: {Logged: true, Snapshotted: true},
	OpToggleLandPlayed:      {Logged: true, Snapshotted: true},
	OpAdjustCardsDrawn:      {Logged: true, Snapshotted: true},
	OpAdjustSpellStack:      {Logged: true, Snapshotted: true},
	OpClearSpellStack:       {Logged: true, Snapshotted: true},
	OpNextTurn:              {Logged: true, Snapshotted: true},
	OpSetActivePlayer:       {Logged: true},
	OpToggleDayNight:        {Logged: true},
	OpSetMonarch:            {Logged: true},
	OpSetInitiative:         {Logged: true},
	OpToggleEliminated:      {Logged: true, Snapshotted: true},
	OpUndoLastAction:        {Logged: true},
	OpResetGame:             {Logged: true},
	OpUpdatePlayerName:      {Cosmetic: true},
	OpUpdatePlayerColor:     {Cosmetic: true},
	OpUpdateStartingLife:    {Cosmetic: true},
	OpAddDiceRollLog:        {Logged: true},
}

// PolicyFor returns the recording policy of op.
func PolicyFor(op Operation) (Policy, bool) {
	p, ok := operationPolicies[op]
	return p, ok
}

// Operations returns every known operation, sorted by name.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operationPolicies))
	for op := range operationPolicies {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}
