package game

import (
	"time"

	"github.com/podtracker/lifetracker-go/internal/game/counters"
	"github.com/podtracker/lifetracker-go/internal/identity"
)

const (
	// SeatCount is the fixed number of players in a session.
	SeatCount = identity.SeatCount
	// MaxLogEntries caps the action log; the oldest entries are dropped.
	MaxLogEntries = 500
	// MaxUndoSnapshots caps the undo stack; the oldest snapshots are dropped.
	MaxUndoSnapshots = 50
)

// Player is one seat at the table.
type Player struct {
	ID                 string
	Name               string
	Color              string
	Life               int
	Poison             int
	Experience         int
	Energy             int
	CommanderDamage    counters.Tally // source player id -> damage received
	LandPlayedThisTurn bool
	CardsDrawnThisTurn int
	IsEliminated       bool
}

func newPlayer(seat int, pid identity.PlayerIdentity, startingLife int) Player {
	return Player{
		ID:              identity.SeatID(seat),
		Name:            pid.Name,
		Color:           pid.Color,
		Life:            startingLife,
		CommanderDamage: counters.Tally{},
	}
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	p.CommanderDamage = p.CommanderDamage.Copy()
	return p
}

// SessionState is the aggregate state of one game.
type SessionState struct {
	Players            [SeatCount]Player
	ActivePlayerIndex  int
	TurnNumber         int
	SpellStackCount    int
	IsDay              bool
	MonarchPlayerID    string // empty when nobody is the monarch
	InitiativePlayerID string // empty when nobody has the initiative
	StartingLife       int
	GameStartTime      time.Time
}

// newSessionState starts a game from a stored identity, which is normalized
// first since it may be partial or hand edited.
func newSessionState(id identity.Identity, startedAt time.Time) SessionState {
	id = id.Normalize()
	var seats [SeatCount]identity.PlayerIdentity
	copy(seats[:], id.Players)
	return freshState(seats, id.StartingLife, startedAt)
}

// freshState starts a game with seats taken as given.
func freshState(seats [SeatCount]identity.PlayerIdentity, startingLife int, startedAt time.Time) SessionState {
	st := SessionState{
		TurnNumber:    1,
		IsDay:         true,
		StartingLife:  startingLife,
		GameStartTime: startedAt,
	}
	for i := range st.Players {
		st.Players[i] = newPlayer(i, seats[i], startingLife)
	}
	return st
}

// seats returns the cosmetic identity of each seat exactly as it is now.
func (s *SessionState) seats() [SeatCount]identity.PlayerIdentity {
	var out [SeatCount]identity.PlayerIdentity
	for i, p := range s.Players {
		out[i] = identity.PlayerIdentity{ID: p.ID, Name: p.Name, Color: p.Color}
	}
	return out
}

// Clone returns a deep copy of the state.
func (s SessionState) Clone() SessionState {
	for i := range s.Players {
		s.Players[i] = s.Players[i].Clone()
	}
	return s
}

// ActivePlayer returns the player whose turn it is.
func (s SessionState) ActivePlayer() Player {
	return s.Players[s.ActivePlayerIndex]
}

// PlayerByID looks up a player by id.
func (s SessionState) PlayerByID(id string) (Player, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Players[i], true
	}
	return Player{}, false
}

func (s *SessionState) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *SessionState) player(id string) *Player {
	if i := s.indexOf(id); i >= 0 {
		return &s.Players[i]
	}
	return nil
}

// Snapshot is an independent copy of the mutable part of SessionState,
// taken before a reversible operation.
type Snapshot struct {
	Players            [SeatCount]Player
	SpellStackCount    int
	ActivePlayerIndex  int
	TurnNumber         int
	IsDay              bool
	MonarchPlayerID    string
	InitiativePlayerID string
}

func (s *SessionState) snapshot() Snapshot {
	snap := Snapshot{
		SpellStackCount:    s.SpellStackCount,
		ActivePlayerIndex:  s.ActivePlayerIndex,
		TurnNumber:         s.TurnNumber,
		IsDay:              s.IsDay,
		MonarchPlayerID:    s.MonarchPlayerID,
		InitiativePlayerID: s.InitiativePlayerID,
	}
	for i := range s.Players {
		snap.Players[i] = s.Players[i].Clone()
	}
	return snap
}

// restore replaces the mutable fields wholesale. The snapshot is consumed;
// its maps become owned by the state.
func (s *SessionState) restore(snap Snapshot) {
	s.Players = snap.Players
	s.SpellStackCount = snap.SpellStackCount
	s.ActivePlayerIndex = snap.ActivePlayerIndex
	s.TurnNumber = snap.TurnNumber
	s.IsDay = snap.IsDay
	s.MonarchPlayerID = snap.MonarchPlayerID
	s.InitiativePlayerID = snap.InitiativePlayerID
}
