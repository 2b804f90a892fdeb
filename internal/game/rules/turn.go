package rules

// TurnManager tracks the active seat and turn number for a fixed ring of seats.
// A turn number counts rounds: it increments each time play wraps back to seat 0.
type TurnManager struct {
	seats      int
	activeSeat int
	turnNumber int
}

// NewTurnManager creates a turn manager initialized at turn 1, seat 0.
func NewTurnManager(seats int) *TurnManager {
	if seats < 1 {
		seats = 1
	}
	return &TurnManager{
		seats:      seats,
		activeSeat: 0,
		turnNumber: 1,
	}
}

// ResumeTurnManager creates a turn manager positioned at an existing seat and turn.
func ResumeTurnManager(seats, activeSeat, turnNumber int) *TurnManager {
	tm := NewTurnManager(seats)
	if activeSeat >= 0 && activeSeat < tm.seats {
		tm.activeSeat = activeSeat
	}
	if turnNumber > 0 {
		tm.turnNumber = turnNumber
	}
	return tm
}

// Seats returns the number of seats in rotation.
func (tm *TurnManager) Seats() int {
	return tm.seats
}

// ActiveSeat returns the index of the seat whose turn it is.
func (tm *TurnManager) ActiveSeat() int {
	return tm.activeSeat
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// AdvanceTurn passes the turn to the next seat. When the rotation wraps to
// seat 0 the turn number is incremented and newRound is true.
func (tm *TurnManager) AdvanceTurn() (seat int, newRound bool) {
	tm.activeSeat = (tm.activeSeat + 1) % tm.seats
	if tm.activeSeat == 0 {
		tm.turnNumber++
		newRound = true
	}
	return tm.activeSeat, newRound
}

// SetActiveSeat jumps directly to a seat without touching the turn number.
// Returns false and leaves the manager unchanged when seat is out of range.
func (tm *TurnManager) SetActiveSeat(seat int) bool {
	if seat < 0 || seat >= tm.seats {
		return false
	}
	tm.activeSeat = seat
	return true
}
