package game

// UndoStack holds snapshots most recent first, bounded to limit.
// There is no redo: a popped snapshot is discarded.
type UndoStack struct {
	snapshots []Snapshot
	limit     int
}

func newUndoStack(limit int) *UndoStack {
	return &UndoStack{
		snapshots: make([]Snapshot, 0, limit),
		limit:     limit,
	}
}

func (u *UndoStack) push(snap Snapshot) {
	u.snapshots = append(u.snapshots, Snapshot{})
	copy(u.snapshots[1:], u.snapshots)
	u.snapshots[0] = snap
	if len(u.snapshots) > u.limit {
		clear(u.snapshots[u.limit:])
		u.snapshots = u.snapshots[:u.limit]
	}
}

func (u *UndoStack) pop() (Snapshot, bool) {
	if len(u.snapshots) == 0 {
		return Snapshot{}, false
	}
	snap := u.snapshots[0]
	copy(u.snapshots, u.snapshots[1:])
	u.snapshots[len(u.snapshots)-1] = Snapshot{}
	u.snapshots = u.snapshots[:len(u.snapshots)-1]
	return snap, true
}

func (u *UndoStack) clear() {
	clear(u.snapshots)
	u.snapshots = u.snapshots[:0]
}

// Len returns the number of snapshots available to undo.
func (u *UndoStack) Len() int {
	return len(u.snapshots)
}
