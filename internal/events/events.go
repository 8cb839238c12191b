package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EventBookingCreated          = "booking_created"
	EventBookingUpdated          = "booking_updated"
	EventBookingDeleted          = "booking_deleted"
	EventBookingPaid             = "booking_paid"
	EventBookingCascadeCancelled = "booking_cascade_cancelled"

	EventChangeRequestSubmitted   = "change_request_submitted"
	EventChangeRequestApproved    = "change_request_approved"
	EventChangeRequestDisapproved = "change_request_disapproved"
)

// BookingEventPayload describes the booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID     int64     `json:"booking_id"`
	CustomerID    int64     `json:"customer_id"`
	RoomID        int64     `json:"room_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	ChangedBy     string    `json:"changed_by,omitempty"`
	ChangedByID   int64     `json:"changed_by_id,omitempty"`
	// CausedByRequestID is set when a change-request approval caused this event.
	CausedByRequestID int64 `json:"caused_by_request_id,omitempty"`
}

// ChangeRequestEventPayload describes a change request at submission or decision time.
type ChangeRequestEventPayload struct {
	RequestID  int64  `json:"request_id"`
	BookingID  int64  `json:"booking_id"`
	CustomerID int64  `json:"customer_id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	DecidedBy  int64  `json:"decided_by,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewEventBus constructs an empty bus. Handler failures are logged to logger when set.
func NewEventBus(logger *zerolog.Logger) *EventBus {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

// Subscribe registers a handler for the given event types.
func (b *EventBus) Subscribe(handler EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	}
}

// Publish notifies subscribers of the event type.
// Handlers run synchronously; a failing or panicking handler does not stop the others.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		if err := b.invoke(handler, event); err != nil {
			b.logger.Error().Err(err).Str("event_type", event.Type).Msg("event handler failed")
		}
	}
}

func (b *EventBus) invoke(handler EventHandler, event *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(event)
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
