package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn events
	EventTurnBegan    EventType = "TURN_BEGAN"
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventTurnEnded    EventType = "TURN_ENDED"
	EventMatchEnded   EventType = "MATCH_ENDED"

	// Card events
	EventDrewCard       EventType = "DREW_CARD"
	EventDeckExhausted  EventType = "DECK_EXHAUSTED"
	EventDiscardedCard  EventType = "DISCARDED_CARD"
	EventEnergySet      EventType = "ENERGY_SET"
	EventMonsterSet     EventType = "MONSTER_SET"
	EventSpellSet       EventType = "SPELL_SET"
	EventAttackEquipped EventType = "ATTACK_EQUIPPED"

	// Combat events
	EventAttackDeclared EventType = "ATTACK_DECLARED"
	EventBattleResolved EventType = "BATTLE_RESOLVED"
	EventDirectHit      EventType = "DIRECT_HIT"
	EventLostLife       EventType = "LOST_LIFE"

	// Spell events
	EventSpellActivated EventType = "SPELL_ACTIVATED"
	EventCounterPlayed  EventType = "COUNTER_PLAYED"

	// Rejections
	EventInsufficientEnergy EventType = "INSUFFICIENT_ENERGY"
	EventInvalidSelection   EventType = "INVALID_SELECTION"
	EventZoneFull           EventType = "ZONE_FULL"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType `json:"type"`
	ID          string    `json:"id"`
	TargetID    string    `json:"target_id,omitempty"` // ID of the target card or player
	SourceID    string    `json:"source_id,omitempty"` // ID of the card causing the event
	PlayerID    string    `json:"player_id,omitempty"`
	Amount      int       `json:"amount,omitempty"` // damage, life, cost
	Flag        bool      `json:"flag,omitempty"`
	Data        string    `json:"data,omitempty"`
	Turn        int       `json:"turn"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description,omitempty"`
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
// Listeners are called in subscription order.
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

// Unsubscribe removes the listener identified by the provided handle.
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

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	listeners := make([]Listener, 0, len(bus.order))
	for _, h := range bus.order {
		listeners = append(listeners, bus.listeners[h])
	}
	typed := append([]TypedListener{}, bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, playerID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		TargetID:  targetID,
		SourceID:  sourceID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, playerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Amount = amount
	return evt
}
