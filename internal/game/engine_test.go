package game_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/podtracker/lifetracker-go/internal/game"
	"github.com/podtracker/lifetracker-go/internal/game/rules"
	"github.com/podtracker/lifetracker-go/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	p1 = "player-1"
	p2 = "player-2"
	p3 = "player-3"
	p4 = "player-4"
)

var gameStart = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

type recordingSink struct {
	submitted []identity.Identity
}

func (s *recordingSink) Submit(id identity.Identity) {
	s.submitted = append(s.submitted, id)
}

func newTestEngine(t *testing.T, opts ...game.Option) *game.Engine {
	t.Helper()
	seq := 0
	base := []game.Option{
		game.WithLogger(zaptest.NewLogger(t)),
		game.WithClock(func() time.Time { return gameStart }),
		game.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("entry-%d", seq)
		}),
	}
	return game.NewEngine(identity.Default(), append(base, opts...)...)
}

func player(t *testing.T, e *game.Engine, id string) game.Player {
	t.Helper()
	p, ok := e.State().PlayerByID(id)
	require.True(t, ok, "player %s not found", id)
	return p
}

func latest(t *testing.T, e *game.Engine) game.LogEntry {
	t.Helper()
	entry, ok := e.ActionLog().Latest()
	require.True(t, ok, "action log is empty")
	return entry
}

func TestNewEngineDefaults(t *testing.T) {
	e := newTestEngine(t)
	st := e.State()

	assert.Equal(t, 1, st.TurnNumber)
	assert.Equal(t, 0, st.ActivePlayerIndex)
	assert.True(t, st.IsDay)
	assert.Equal(t, 40, st.StartingLife)
	assert.Equal(t, gameStart, st.GameStartTime)
	assert.Empty(t, st.MonarchPlayerID)
	assert.Empty(t, st.InitiativePlayerID)
	for i, p := range st.Players {
		assert.Equal(t, identity.SeatID(i), p.ID)
		assert.Equal(t, identity.DefaultNames[i], p.Name)
		assert.Equal(t, identity.DefaultColors[i], p.Color)
		assert.Equal(t, 40, p.Life)
	}
	assert.Zero(t, e.ActionLog().Len())
	assert.False(t, e.CanUndo())
}

func TestCommanderDamageUndoScenario(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustLife(p1, -5)
	assert.Equal(t, 35, player(t, e, p1).Life)
	assert.Equal(t, "-5 life (40 → 35)", latest(t, e).Action)

	e.AdjustCommanderDamage(p1, p2, 21)
	target := player(t, e, p1)
	assert.Equal(t, 21, target.CommanderDamage[p2])
	assert.Equal(t, 14, target.Life)
	entry := latest(t, e)
	assert.Equal(t, "Cmdr dmg from Player 2: 0 → 21 (life 35 → 14)", entry.Action)
	assert.Equal(t, "Player 1", entry.PlayerName)
	assert.Equal(t, game.CategoryCommander, entry.Category)

	e.UndoLastAction()
	target = player(t, e, p1)
	assert.Equal(t, 0, target.CommanderDamage[p2])
	assert.Equal(t, 35, target.Life)
	assert.Equal(t, "Undo", latest(t, e).Action)
	assert.Equal(t, game.CategorySystem, latest(t, e).Category)

	e.UndoLastAction()
	assert.Equal(t, 40, player(t, e, p1).Life)
	assert.False(t, e.CanUndo())
	assert.Equal(t, 4, e.ActionLog().Len())
}

func TestMonarchOverwrite(t *testing.T) {
	e := newTestEngine(t)

	e.SetMonarch(p1)
	e.SetMonarch(p2)

	assert.Equal(t, p2, e.State().MonarchPlayerID)
	require.Equal(t, 2, e.ActionLog().Len())
	assert.Equal(t, "Player 2 is the Monarch", latest(t, e).Action)
	for _, entry := range e.Log() {
		assert.NotEqual(t, "Monarch removed", entry.Action)
	}
	assert.Zero(t, e.UndoDepth())
}

func TestMonarchAndInitiativeRemoval(t *testing.T) {
	e := newTestEngine(t)

	e.SetInitiative(p3)
	assert.Equal(t, p3, e.State().InitiativePlayerID)
	assert.Equal(t, "Player 3 has the Initiative", latest(t, e).Action)

	e.SetInitiative("")
	assert.Empty(t, e.State().InitiativePlayerID)
	assert.Equal(t, "Initiative removed", latest(t, e).Action)

	e.SetMonarch("")
	assert.Equal(t, "Monarch removed", latest(t, e).Action)

	e.SetMonarch(p4)
	e.SetMonarch("player-9")
	assert.Equal(t, p4, e.State().MonarchPlayerID)
	assert.Equal(t, 4, e.ActionLog().Len())
}

func TestUnknownPlayerIsIgnored(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, game.WithIdentitySink(sink))
	before := e.State()

	e.AdjustLife("nobody", -3)
	e.SetLife("nobody", 10)
	e.AdjustPoison("nobody", 1)
	e.AdjustExperience("nobody", 1)
	e.AdjustEnergy("nobody", 1)
	e.AdjustCommanderDamage(p1, "nobody", 5)
	e.AdjustCommanderDamage("nobody", p1, 5)
	e.ToggleLandPlayed("nobody")
	e.AdjustCardsDrawn("nobody", 1)
	e.ToggleEliminated("nobody")
	e.UpdatePlayerName("nobody", "Ghost")
	e.UpdatePlayerColor("nobody", "#000000")

	assert.Equal(t, before, e.State())
	assert.Zero(t, e.ActionLog().Len())
	assert.Zero(t, e.UndoDepth())
	assert.Empty(t, sink.submitted)
}

func TestRedundantOperationsAreIgnored(t *testing.T) {
	e := newTestEngine(t)

	e.ClearSpellStack()
	e.UndoLastAction()
	e.SetActivePlayer(-1)
	e.SetActivePlayer(game.SeatCount)
	e.UpdateStartingLife(0)

	assert.Zero(t, e.ActionLog().Len())
	assert.Zero(t, e.UndoDepth())
	assert.Equal(t, 0, e.State().ActivePlayerIndex)
	assert.Equal(t, 40, e.State().StartingLife)
}

func TestFlooredCounters(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustPoison(p1, 3)
	e.AdjustPoison(p1, -5)
	assert.Equal(t, 0, player(t, e, p1).Poison)
	assert.Equal(t, "-5 poison (3 → 0)", latest(t, e).Action)

	e.AdjustExperience(p2, -1)
	assert.Equal(t, 0, player(t, e, p2).Experience)

	e.AdjustEnergy(p3, 4)
	assert.Equal(t, 4, player(t, e, p3).Energy)
	assert.Equal(t, "+4 energy (0 → 4)", latest(t, e).Action)

	e.AdjustSpellStack(2)
	e.AdjustSpellStack(-7)
	assert.Equal(t, 0, e.State().SpellStackCount)
	assert.Equal(t, "Stack: 2 → 0", latest(t, e).Action)

	e.AdjustCardsDrawn(p4, -2)
	assert.Equal(t, 0, player(t, e, p4).CardsDrawnThisTurn)
	assert.Equal(t, "Draw count -2 (0 this turn)", latest(t, e).Action)
}

func TestLifeIsNotClamped(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustLife(p1, -45)
	assert.Equal(t, -5, player(t, e, p1).Life)

	e.SetLife(p1, 25)
	assert.Equal(t, 25, player(t, e, p1).Life)
	entry := latest(t, e)
	assert.Equal(t, "Life set: -5 → 25", entry.Action)
	delta, ok := entry.DeltaValue()
	require.True(t, ok)
	assert.Equal(t, 30, delta)
}

func TestCommanderDamageRemovalRestoresLife(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustCommanderDamage(p2, p3, 5)
	e.AdjustCommanderDamage(p2, p3, -10)

	p := player(t, e, p2)
	assert.Equal(t, 0, p.CommanderDamage[p3])
	assert.Equal(t, 40, p.Life)
	entry := latest(t, e)
	assert.Equal(t, "Cmdr dmg from Player 3: 5 → 0 (life 35 → 40)", entry.Action)
	delta, ok := entry.DeltaValue()
	require.True(t, ok)
	assert.Equal(t, -10, delta)
}

func TestCommanderSelfDamageIsAllowed(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustCommanderDamage(p1, p1, 3)

	p := player(t, e, p1)
	assert.Equal(t, 3, p.CommanderDamage[p1])
	assert.Equal(t, 37, p.Life)
}

func TestNextTurnRotation(t *testing.T) {
	e := newTestEngine(t)

	e.ToggleLandPlayed(p2)
	e.AdjustCardsDrawn(p2, 2)
	assert.Equal(t, "Drew 2 cards (2 this turn)", latest(t, e).Action)
	e.AdjustSpellStack(3)

	e.NextTurn()
	st := e.State()
	assert.Equal(t, 1, st.ActivePlayerIndex)
	assert.Equal(t, 1, st.TurnNumber)
	assert.Equal(t, 0, st.SpellStackCount)
	assert.False(t, st.Players[1].LandPlayedThisTurn)
	assert.Equal(t, 0, st.Players[1].CardsDrawnThisTurn)
	assert.Equal(t, "Turn 1: Player 2", latest(t, e).Action)

	e.NextTurn()
	e.NextTurn()
	e.NextTurn()
	st = e.State()
	assert.Equal(t, 0, st.ActivePlayerIndex)
	assert.Equal(t, 2, st.TurnNumber)
	assert.Equal(t, "Turn 2 (new round): Player 1", latest(t, e).Action)
	assert.Equal(t, game.CategoryTurn, latest(t, e).Category)
}

func TestNextTurnOnlyResetsIncomingPlayer(t *testing.T) {
	e := newTestEngine(t)

	e.ToggleLandPlayed(p1)
	e.AdjustCardsDrawn(p1, 1)
	e.ToggleLandPlayed(p3)
	e.NextTurn()

	st := e.State()
	assert.True(t, st.Players[0].LandPlayedThisTurn)
	assert.Equal(t, 1, st.Players[0].CardsDrawnThisTurn)
	assert.True(t, st.Players[2].LandPlayedThisTurn)
}

func TestSetActivePlayerIsNotUndoable(t *testing.T) {
	e := newTestEngine(t)

	e.SetActivePlayer(2)
	e.ToggleDayNight()

	st := e.State()
	assert.Equal(t, 2, st.ActivePlayerIndex)
	assert.False(t, st.IsDay)
	assert.Equal(t, 2, e.ActionLog().Len())
	assert.Equal(t, "Night", latest(t, e).Action)
	assert.Equal(t, "Active player → Player 3", e.Log()[1].Action)
	assert.Zero(t, e.UndoDepth())

	e.ToggleDayNight()
	assert.Equal(t, "Day", latest(t, e).Action)
}

func TestToggleEliminated(t *testing.T) {
	e := newTestEngine(t)

	e.ToggleEliminated(p4)
	assert.True(t, player(t, e, p4).IsEliminated)
	assert.Equal(t, "Player 4 eliminated", latest(t, e).Action)

	e.AdjustLife(p4, 5)
	assert.Equal(t, 45, player(t, e, p4).Life)

	e.ToggleEliminated(p4)
	assert.False(t, player(t, e, p4).IsEliminated)
	assert.Equal(t, "Player 4 returned", latest(t, e).Action)
	assert.Equal(t, 3, e.UndoDepth())
}

func TestLandToggleText(t *testing.T) {
	e := newTestEngine(t)

	e.ToggleLandPlayed(p1)
	assert.Equal(t, "Land drop used", latest(t, e).Action)
	e.ToggleLandPlayed(p1)
	assert.Equal(t, "Land drop freed", latest(t, e).Action)
	assert.Equal(t, game.CategoryLand, latest(t, e).Category)
}

func TestUndoReversesExactlyOneOperation(t *testing.T) {
	e := newTestEngine(t)

	for i := 1; i <= 10; i++ {
		e.AdjustLife(p1, -1)
	}
	for i := 1; i <= 10; i++ {
		e.UndoLastAction()
		assert.Equal(t, 30+i, player(t, e, p1).Life)
	}
	assert.False(t, e.CanUndo())
	assert.Equal(t, 20, e.ActionLog().Len())
}

func TestUndoStackIsBounded(t *testing.T) {
	e := newTestEngine(t)

	total := game.MaxUndoSnapshots + 10
	for i := 0; i < total; i++ {
		e.AdjustLife(p1, 1)
	}
	assert.Equal(t, game.MaxUndoSnapshots, e.UndoDepth())

	for i := 0; i < game.MaxUndoSnapshots; i++ {
		e.UndoLastAction()
	}
	assert.Equal(t, 40+total-game.MaxUndoSnapshots, player(t, e, p1).Life)
	assert.False(t, e.CanUndo())

	logLen := e.ActionLog().Len()
	e.UndoLastAction()
	assert.Equal(t, logLen, e.ActionLog().Len())
}

func TestUndoDoesNotRevertUnsnapshottedOperations(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustLife(p1, -2)
	e.AddDiceRollLog(20, 17)

	e.UndoLastAction()
	assert.Equal(t, 40, player(t, e, p1).Life)
	entries := e.Log()
	require.Len(t, entries, 3)
	assert.Equal(t, "Undo", entries[0].Action)
	assert.Equal(t, "d20 → 17", entries[1].Action)
	assert.Equal(t, game.CategoryDice, entries[1].Category)
}

func TestActionLogIsBounded(t *testing.T) {
	e := newTestEngine(t)

	for i := 0; i < game.MaxLogEntries+25; i++ {
		e.AddDiceRollLog(6, i%6+1)
	}
	assert.Equal(t, game.MaxLogEntries, e.ActionLog().Len())
	entries := e.Log()
	assert.Equal(t, fmt.Sprintf("entry-%d", game.MaxLogEntries+25), entries[0].ID)
	assert.Equal(t, "entry-26", entries[len(entries)-1].ID)
}

func TestLogKeepsNameAtTimeOfChange(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustLife(p1, -1)
	e.UpdatePlayerName(p1, "Atraxa")
	e.AdjustLife(p1, -1)

	entries := e.Log()
	require.Len(t, entries, 2)
	assert.Equal(t, "Atraxa", entries[0].PlayerName)
	assert.Equal(t, "Player 1", entries[1].PlayerName)
}

func TestCosmeticUpdatesReachSink(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, game.WithIdentitySink(sink))

	e.UpdatePlayerName(p2, "Kenrith")
	e.UpdatePlayerColor(p3, "#FFAA00")
	e.UpdateStartingLife(30)

	assert.Zero(t, e.UndoDepth())
	assert.Zero(t, e.ActionLog().Len())

	e.AdjustLife(p1, -1)
	require.Len(t, sink.submitted, 3)

	last := sink.submitted[2]
	assert.Equal(t, 30, last.StartingLife)
	assert.Equal(t, "Kenrith", last.Players[1].Name)
	assert.Equal(t, "#FFAA00", last.Players[2].Color)
	assert.Equal(t, p2, last.Players[1].ID)

	// the running game keeps its life totals
	assert.Equal(t, 40, player(t, e, p2).Life)
}

func TestResetGame(t *testing.T) {
	restart := gameStart.Add(time.Hour)
	now := gameStart
	e := newTestEngine(t, game.WithClock(func() time.Time { return now }))

	e.UpdatePlayerName(p1, "Yuriko")
	e.UpdatePlayerColor(p1, "#222222")
	e.UpdateStartingLife(30)
	e.AdjustLife(p1, -10)
	e.AdjustPoison(p2, 4)
	e.AdjustCommanderDamage(p3, p4, 8)
	e.ToggleEliminated(p4)
	e.NextTurn()
	e.SetMonarch(p2)
	e.ToggleDayNight()

	now = restart
	e.ResetGame()

	st := e.State()
	assert.Equal(t, 1, st.TurnNumber)
	assert.Equal(t, 0, st.ActivePlayerIndex)
	assert.True(t, st.IsDay)
	assert.Empty(t, st.MonarchPlayerID)
	assert.Equal(t, 30, st.StartingLife)
	assert.Equal(t, restart, st.GameStartTime)
	assert.Equal(t, "Yuriko", st.Players[0].Name)
	assert.Equal(t, "#222222", st.Players[0].Color)
	for _, p := range st.Players {
		assert.Equal(t, 30, p.Life)
		assert.Zero(t, p.Poison)
		assert.Empty(t, p.CommanderDamage)
		assert.False(t, p.IsEliminated)
	}

	require.Equal(t, 1, e.ActionLog().Len())
	assert.Equal(t, "New game started", latest(t, e).Action)
	assert.False(t, e.CanUndo())
}

func TestEventsArePublished(t *testing.T) {
	bus := rules.NewEventBus()
	var got []rules.Event
	bus.Subscribe(func(ev rules.Event) { got = append(got, ev) })
	e := newTestEngine(t, game.WithEventBus(bus))

	e.AdjustCommanderDamage(p1, p2, 7)
	e.AdjustPoison("nobody", 1)
	e.UndoLastAction()

	require.Len(t, got, 2)
	assert.Equal(t, rules.EventCommanderDamage, got[0].Type)
	assert.Equal(t, p1, got[0].PlayerID)
	assert.Equal(t, p2, got[0].SourceID)
	assert.Equal(t, 7, got[0].Amount)
	assert.Equal(t, gameStart, got[0].Timestamp)
	assert.Equal(t, rules.EventUndo, got[1].Type)
	assert.Same(t, bus, e.Bus())
}

func TestStateIsACopy(t *testing.T) {
	e := newTestEngine(t)
	e.AdjustCommanderDamage(p1, p2, 2)

	st := e.State()
	st.Players[0].Life = 1
	st.Players[0].CommanderDamage[p2] = 99

	p := player(t, e, p1)
	assert.Equal(t, 38, p.Life)
	assert.Equal(t, 2, p.CommanderDamage[p2])
}

func TestNewEngineNormalizesIdentity(t *testing.T) {
	id := identity.Identity{
		Players: []identity.PlayerIdentity{
			{ID: "x", Name: "Edgar", Color: "#101010"},
		},
	}
	e := game.NewEngine(id)
	st := e.State()

	assert.Equal(t, p1, st.Players[0].ID)
	assert.Equal(t, "Edgar", st.Players[0].Name)
	assert.Equal(t, identity.DefaultNames[3], st.Players[3].Name)
	assert.Equal(t, identity.DefaultStartingLife, st.Players[3].Life)
}

func TestResetGameKeepsNamesVerbatim(t *testing.T) {
	e := newTestEngine(t)

	e.UpdatePlayerName(p1, "")
	e.UpdatePlayerName(p2, "  Edgar ")
	e.UpdatePlayerColor(p3, "")
	e.ResetGame()

	st := e.State()
	assert.Equal(t, "", st.Players[0].Name)
	assert.Equal(t, "  Edgar ", st.Players[1].Name)
	assert.Equal(t, "", st.Players[2].Color)
	assert.Equal(t, identity.DefaultNames[3], st.Players[3].Name)
	for i, p := range st.Players {
		assert.Equal(t, identity.SeatID(i), p.ID)
	}
}

func TestUndoResubmitsRestoredIdentity(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, game.WithIdentitySink(sink))

	e.AdjustLife(p1, -1)
	e.UpdatePlayerName(p1, "Atraxa")
	e.UndoLastAction()

	assert.Equal(t, "Player 1", player(t, e, p1).Name)
	require.Len(t, sink.submitted, 2)
	assert.Equal(t, e.Identity(), sink.submitted[1])
}

func TestUndoWithoutCosmeticChangeSkipsSink(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, game.WithIdentitySink(sink))

	e.AdjustLife(p1, -1)
	e.AdjustPoison(p2, 1)
	e.UndoLastAction()
	e.UndoLastAction()

	assert.Empty(t, sink.submitted)
}

func TestUndoRestoresEveryStep(t *testing.T) {
	e := newTestEngine(t)

	steps := []struct {
		name        string
		snapshotted bool
		run         func()
	}{
		{"life", true, func() { e.AdjustLife(p1, -3) }},
		{"monarch", false, func() { e.SetMonarch(p2) }},
		{"land", true, func() { e.ToggleLandPlayed(p2) }},
		{"draw", true, func() { e.AdjustCardsDrawn(p2, 2) }},
		{"stack", true, func() { e.AdjustSpellStack(2) }},
		{"night", false, func() { e.ToggleDayNight() }},
		{"next turn", true, func() { e.NextTurn() }},
		{"initiative", false, func() { e.SetInitiative(p3) }},
		{"eliminate", true, func() { e.ToggleEliminated(p4) }},
		{"commander", true, func() { e.AdjustCommanderDamage(p1, p3, 6) }},
		{"active", false, func() { e.SetActivePlayer(3) }},
		{"new round", true, func() { e.NextTurn() }},
		{"energy", true, func() { e.AdjustEnergy(p4, 2) }},
	}

	var before []game.SessionState
	var names []string
	for _, step := range steps {
		if step.snapshotted {
			before = append(before, e.State())
			names = append(names, step.name)
		}
		step.run()
	}
	require.Equal(t, len(before), e.UndoDepth())

	for i := len(before) - 1; i >= 0; i-- {
		e.UndoLastAction()
		assert.Equal(t, before[i], e.State(), "after undoing %s", names[i])
	}
	assert.False(t, e.CanUndo())
}

func TestUndoNextTurnRestoresIncomingPlayer(t *testing.T) {
	e := newTestEngine(t)

	e.ToggleLandPlayed(p2)
	e.AdjustCardsDrawn(p2, 3)
	e.AdjustSpellStack(4)
	e.NextTurn()
	e.UndoLastAction()

	st := e.State()
	assert.Equal(t, 0, st.ActivePlayerIndex)
	assert.Equal(t, 1, st.TurnNumber)
	assert.Equal(t, 4, st.SpellStackCount)
	assert.True(t, st.Players[1].LandPlayedThisTurn)
	assert.Equal(t, 3, st.Players[1].CardsDrawnThisTurn)
}

func TestDrawCountZeroDelta(t *testing.T) {
	e := newTestEngine(t)

	e.AdjustCardsDrawn(p1, 1)
	e.AdjustCardsDrawn(p1, 0)

	assert.Equal(t, "Draw count 0 (1 this turn)", latest(t, e).Action)
	assert.Equal(t, 1, player(t, e, p1).CardsDrawnThisTurn)
}
