// Package rules publishes committed match events to interested subscribers.
package rules

import (
	"sync"
	"time"

	"github.com/norsetcg/cardengine/internal/game/match"
)

// EventType indicates the category of a committed event. It shares its values with
// the audit log types so a log entry maps onto an event one to one.
type EventType string

const (
	EventCardPlayed       EventType = EventType(match.LogPlay)
	EventDamaged          EventType = EventType(match.LogDamage)
	EventShieldBroken     EventType = EventType(match.LogShieldBreak)
	EventHealed           EventType = EventType(match.LogHeal)
	EventBuffed           EventType = EventType(match.LogBuff)
	EventSummoned         EventType = EventType(match.LogSummon)
	EventDrew             EventType = EventType(match.LogDraw)
	EventBurned           EventType = EventType(match.LogBurn)
	EventDiscarded        EventType = EventType(match.LogDiscard)
	EventDestroyed        EventType = EventType(match.LogDestroy)
	EventDied             EventType = EventType(match.LogDeath)
	EventReturned         EventType = EventType(match.LogReturn)
	EventTransformed      EventType = EventType(match.LogTransform)
	EventSilenced         EventType = EventType(match.LogSilence)
	EventFrozen           EventType = EventType(match.LogFreeze)
	EventMindControlled   EventType = EventType(match.LogMindControl)
	EventDiscovered       EventType = EventType(match.LogDiscover)
	EventQuestStarted     EventType = EventType(match.LogQuestStarted)
	EventQuestProgressed  EventType = EventType(match.LogQuestProgress)
	EventQuestCompleted   EventType = EventType(match.LogQuestCompleted)
	EventQuestRewardAdded EventType = EventType(match.LogQuestRewardAdded)
	EventArmorGained      EventType = EventType(match.LogArmor)
	EventWeaponEquipped   EventType = EventType(match.LogEquip)
	EventAddedToHand      EventType = EventType(match.LogAddToHand)
	EventDeathrattle      EventType = EventType(match.LogDeathrattle)
	EventFrenzy           EventType = EventType(match.LogFrenzy)
	EventMagnetized       EventType = EventType(match.LogMagnetic)
	EventColossalSummoned EventType = EventType(match.LogColossal)
	EventEcho             EventType = EventType(match.LogEcho)
	EventCombo            EventType = EventType(match.LogCombo)
	EventSecretPlayed     EventType = EventType(match.LogSecret)
	EventEffect           EventType = EventType(match.LogEffect)
	EventAction           EventType = EventType(match.LogAction)
	EventTurnEnded        EventType = EventType(match.LogEndTurn)
	EventMulligan         EventType = EventType(match.LogMulligan)
)

// IsQuest reports whether the type belongs to the quest lifecycle.
func (et EventType) IsQuest() bool {
	switch et {
	case EventQuestStarted, EventQuestProgressed, EventQuestCompleted, EventQuestRewardAdded:
		return true
	}
	return false
}

// Event is a committed state change other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string    // Log entry id
	MatchID     string    // Match the event belongs to
	TargetID    string    // Instance or hero id the event is about
	SourceID    string    // Card id of the source
	Controller  string    // Acting side
	Amount      int       // Damage, heal, progress and so on
	Turn        int       // Turn the event happened on
	Timestamp   time.Time // When the log entry was written
	Description string    // Human-readable description
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

// Unsubscribe removes the listener identified by the provided handle, typed or not.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// PublishBatch publishes events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// FromLog converts a committed log entry into an event.
func FromLog(matchID string, ev match.LogEvent) Event {
	return Event{
		Type:        EventType(ev.Type),
		ID:          ev.ID,
		MatchID:     matchID,
		TargetID:    ev.TargetID,
		SourceID:    ev.CardID,
		Controller:  string(ev.Player),
		Amount:      ev.Value,
		Turn:        ev.Turn,
		Timestamp:   ev.Timestamp,
		Description: ev.Text,
	}
}

// FromLogs converts a run of log entries, keeping their order.
func FromLogs(matchID string, evs []match.LogEvent) []Event {
	out := make([]Event, 0, len(evs))
	for _, ev := range evs {
		out = append(out, FromLog(matchID, ev))
	}
	return out
}
