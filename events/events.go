package events

import (
	"context"
	"sync"
	"time"

	"dinks/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeAccountCreated    EventType = "account_created"
	EventTypeRobAttempted      EventType = "rob_attempted"
	EventTypePrisonStateChange EventType = "prison_state_change"
	EventTypeGamblePlayed      EventType = "gamble_played"
	EventTypeInterestAccrued   EventType = "interest_accrued"
)

// AllEventTypes lists every event type the economy emits
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeBalanceChange,
		EventTypeAccountCreated,
		EventTypeRobAttempted,
		EventTypePrisonStateChange,
		EventTypeGamblePlayed,
		EventTypeInterestAccrued,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted for every committed change to an account's dinks
type BalanceChangeEvent struct {
	UserID          int64                  `json:"user_id"`
	OldBalance      decimal.Decimal        `json:"old_balance"`
	NewBalance      decimal.Decimal        `json:"new_balance"`
	ChangeAmount    decimal.Decimal        `json:"change_amount"`
	TransactionType models.TransactionType `json:"transaction_type"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted the first time a user is referenced
type AccountCreatedEvent struct {
	UserID int64 `json:"user_id"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// RobAttemptedEvent is emitted once per rob attempt that passed its preconditions
type RobAttemptedEvent struct {
	AttackerID int64             `json:"attacker_id"`
	TargetID   int64             `json:"target_id"`
	Outcome    models.RobOutcome `json:"outcome"`
	Stolen     decimal.Decimal   `json:"stolen"`
	Paid       decimal.Decimal   `json:"paid"`
}

func (e RobAttemptedEvent) Type() EventType {
	return EventTypeRobAttempted
}

// PrisonReason says why a user entered or left prison
type PrisonReason string

const (
	PrisonReasonShortfall PrisonReason = "shortfall"
	PrisonReasonCaught    PrisonReason = "caught"
	PrisonReasonBail      PrisonReason = "bail"
	PrisonReasonServed    PrisonReason = "served"
)

// PrisonStateChangeEvent is emitted when a user is jailed or released
type PrisonStateChangeEvent struct {
	UserID int64           `json:"user_id"`
	Jailed bool            `json:"jailed"`
	Reason PrisonReason    `json:"reason"`
	Debt   decimal.Decimal `json:"debt"`
	Days   int             `json:"days"`
}

func (e PrisonStateChangeEvent) Type() EventType {
	return EventTypePrisonStateChange
}

// GamblePlayedEvent is emitted for every settled wager
type GamblePlayedEvent struct {
	UserID int64           `json:"user_id"`
	Game   string          `json:"game"`
	Amount decimal.Decimal `json:"amount"`
	Won    bool            `json:"won"`
	Payout decimal.Decimal `json:"payout"`
}

func (e GamblePlayedEvent) Type() EventType {
	return EventTypeGamblePlayed
}

// InterestAccruedEvent is emitted after a daily accrual run commits
type InterestAccruedEvent struct {
	RunDate           time.Time       `json:"run_date"`
	AccountsAccrued   int             `json:"accounts_accrued"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	PrisonersReleased int             `json:"prisoners_released"`
}

func (e InterestAccruedEvent) Type() EventType {
	return EventTypeInterestAccrued
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds the same handler for every event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes() {
		b.Subscribe(eventType, handler)
	}
}

// Emit dispatches an event to every registered handler on its own goroutine.
// A panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events published inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits the pending events on the real bus. Called after commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional bus")

	// Handlers outlive the request, so they get a fresh context
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of events waiting for a flush
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
