package counters

// Counter is a named non-negative tally kept on a player or on the session.
type Counter struct {
	Name  string
	Count int
}

// NewCounter creates a counter with the given starting count.
// Negative counts are floored at zero.
func NewCounter(name string, count int) *Counter {
	if count < 0 {
		count = 0
	}
	return &Counter{
		Name:  name,
		Count: count,
	}
}

// Add raises the count. Non-positive amounts are ignored.
func (c *Counter) Add(amount int) {
	if amount <= 0 {
		return
	}
	c.Count += amount
}

// Remove lowers the count, stopping at zero. Non-positive amounts are ignored.
func (c *Counter) Remove(amount int) {
	if amount <= 0 {
		return
	}
	c.Count = max(c.Count-amount, 0)
}

// Adjust applies a signed delta and returns the count before and after.
func (c *Counter) Adjust(delta int) (int, int) {
	old := c.Count
	if delta >= 0 {
		c.Add(delta)
	} else {
		c.Remove(-delta)
	}
	return old, c.Count
}

// Copy creates a deep copy of the counter.
func (c *Counter) Copy() *Counter {
	return &Counter{
		Name:  c.Name,
		Count: c.Count,
	}
}

// Clamp returns old+delta floored at zero.
func Clamp(old, delta int) int {
	next := old + delta
	if next < 0 {
		return 0
	}
	return next
}

// Tally tracks counters keyed by an arbitrary id, such as commander damage
// received per source player. Absent keys read as zero.
type Tally map[string]int

// Get returns the count for key, zero when absent.
func (t Tally) Get(key string) int {
	return t[key]
}

// Adjust applies delta to key floored at zero and returns old and new values.
func (t Tally) Adjust(key string, delta int) (int, int) {
	old := t[key]
	next := Clamp(old, delta)
	t[key] = next
	return old, next
}

// Max returns the largest count held and the key that holds it.
func (t Tally) Max() (string, int) {
	bestKey, best := "", 0
	for key, count := range t {
		if count > best || (count == best && count > 0 && key < bestKey) {
			bestKey, best = key, count
		}
	}
	return bestKey, best
}

// Copy creates a deep copy of the tally.
func (t Tally) Copy() Tally {
	if t == nil {
		return Tally{}
	}
	cp := make(Tally, len(t))
	for k, v := range t {
		cp[k] = v
	}
	return cp
}
