package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a session event.
type EventType string

const (
	// Player counters
	EventLifeChanged        EventType = "LIFE_CHANGED"
	EventPoisonChanged      EventType = "POISON_CHANGED"
	EventExperienceChanged  EventType = "EXPERIENCE_CHANGED"
	EventEnergyChanged      EventType = "ENERGY_CHANGED"
	EventCommanderDamage    EventType = "COMMANDER_DAMAGE"
	EventLandToggled        EventType = "LAND_TOGGLED"
	EventCardsDrawn         EventType = "CARDS_DRAWN"
	EventEliminationToggled EventType = "ELIMINATION_TOGGLED"

	// Table state
	EventSpellStackChanged   EventType = "SPELL_STACK_CHANGED"
	EventTurnAdvanced        EventType = "TURN_ADVANCED"
	EventActivePlayerChanged EventType = "ACTIVE_PLAYER_CHANGED"
	EventDayNightChanged     EventType = "DAY_NIGHT_CHANGED"
	EventMonarchChanged      EventType = "MONARCH_CHANGED"
	EventInitiativeChanged   EventType = "INITIATIVE_CHANGED"

	// History and session
	EventUndo            EventType = "UNDO"
	EventGameReset       EventType = "GAME_RESET"
	EventDiceRolled      EventType = "DICE_ROLLED"
	EventIdentityChanged EventType = "IDENTITY_CHANGED"
)

// Event describes a committed change to the session.
type Event struct {
	Type        EventType
	PlayerID    string // Player the change applies to, empty for table-wide events
	SourceID    string // Source player for commander damage
	Amount      int    // Signed delta or resulting value, per event type
	Timestamp   time.Time
	Description string // Same text as the action log entry, when one was written
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.order {
			if h == handle {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
		return
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously, in
// subscription order. Listeners may subscribe or unsubscribe while handling.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	all := make([]Listener, 0, len(bus.order))
	for _, handle := range bus.order {
		all = append(all, bus.listeners[handle])
	}
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, listener := range all {
		listener(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, playerID string, amount int, description string) Event {
	return Event{
		Type:        eventType,
		PlayerID:    playerID,
		Amount:      amount,
		Timestamp:   time.Now(),
		Description: description,
	}
}
