package counters

// CounterType represents a kind of counter tracked by the session.
type CounterType string

const (
	CounterTypePoison          CounterType = "poison"
	CounterTypeExperience      CounterType = "experience"
	CounterTypeEnergy          CounterType = "energy"
	CounterTypeCardsDrawn      CounterType = "cards drawn"
	CounterTypeSpellStack      CounterType = "spell stack"
	CounterTypeCommanderDamage CounterType = "commander damage"
)

// Advisory thresholds. Reaching one is informational only.
const (
	CommanderDamageThreshold = 21
	PoisonThreshold          = 10
)

// String returns the string representation of the counter type.
func (ct CounterType) String() string {
	return string(ct)
}

// CreateInstance creates a counter instance of this type with the given amount.
func (ct CounterType) CreateInstance(amount int) *Counter {
	return NewCounter(string(ct), amount)
}

// Threshold returns the advisory threshold for the counter type, if it has one.
func (ct CounterType) Threshold() (int, bool) {
	switch ct {
	case CounterTypePoison:
		return PoisonThreshold, true
	case CounterTypeCommanderDamage:
		return CommanderDamageThreshold, true
	default:
		return 0, false
	}
}

// Reached reports whether count meets the type's advisory threshold.
func (ct CounterType) Reached(count int) bool {
	threshold, ok := ct.Threshold()
	return ok && count >= threshold
}
