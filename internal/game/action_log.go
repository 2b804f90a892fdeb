package game

import "time"

// Category groups log entries for filtering and display.
type Category string

const (
	CategoryLife       Category = "life"
	CategoryPoison     Category = "poison"
	CategoryExperience Category = "experience"
	CategoryEnergy     Category = "energy"
	CategoryCommander  Category = "commander"
	CategoryLand       Category = "land"
	CategoryDraw       Category = "draw"
	CategoryTurn       Category = "turn"
	CategoryStack      Category = "stack"
	CategorySystem     Category = "system"
	CategoryDice       Category = "dice"
)

// LogEntry is an immutable record of one change. PlayerName is copied at the
// time of the change and does not follow later renames.
type LogEntry struct {
	ID         string
	Timestamp  time.Time
	PlayerName string
	Action     string
	Category   Category
	Delta      *int
}

// DeltaValue returns the signed delta and whether the entry carries one.
func (e LogEntry) DeltaValue() (int, bool) {
	if e.Delta == nil {
		return 0, false
	}
	return *e.Delta, true
}

// ActionLog holds entries newest first, bounded to limit.
type ActionLog struct {
	entries []LogEntry
	limit   int
}

func newActionLog(limit int) *ActionLog {
	return &ActionLog{
		entries: make([]LogEntry, 0, 16),
		limit:   limit,
	}
}

// prepend adds entry at the front and drops the oldest entries beyond the limit.
func (l *ActionLog) prepend(entry LogEntry) {
	l.entries = append(l.entries, LogEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry
	if len(l.entries) > l.limit {
		clear(l.entries[l.limit:])
		l.entries = l.entries[:l.limit]
	}
}

func (l *ActionLog) clear() {
	clear(l.entries)
	l.entries = l.entries[:0]
}

func (l *ActionLog) reset(entry LogEntry) {
	l.entries = append(l.entries[:0], entry)
}

// Len returns the number of entries.
func (l *ActionLog) Len() int {
	return len(l.entries)
}

// Latest returns the newest entry.
func (l *ActionLog) Latest() (LogEntry, bool) {
	if len(l.entries) == 0 {
		return LogEntry{}, false
	}
	return l.entries[0], true
}

// Entries returns a copy of the log, newest first.
func (l *ActionLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Filter returns entries of the given categories, newest first.
func (l *ActionLog) Filter(categories ...Category) []LogEntry {
	want := make(map[Category]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	var out []LogEntry
	for _, entry := range l.entries {
		if want[entry.Category] {
			out = append(out, entry)
		}
	}
	return out
}
