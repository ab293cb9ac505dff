package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the budget events queue.
const (
	EventBudgetUpdated = "budget.updated"
	EventBudgetDeleted = "budget.deleted"
)

// BudgetEvent is published after a committed write touched a budget. It
// carries only the month key; consumers reload current state from the
// database rather than trusting a stale payload.
type BudgetEvent struct {
	Event     string    `json:"event"`
	Month     string    `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetUpdated builds an updated event for a month.
func NewBudgetUpdated(month string) *BudgetEvent {
	return &BudgetEvent{Event: EventBudgetUpdated, Month: month, Timestamp: time.Now()}
}

// NewBudgetDeleted builds a deleted event for a month.
func NewBudgetDeleted(month string) *BudgetEvent {
	return &BudgetEvent{Event: EventBudgetDeleted, Month: month, Timestamp: time.Now()}
}

// ToJSON converts the event to JSON bytes.
func (e *BudgetEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BudgetEventFromJSON decodes an event from JSON bytes.
func BudgetEventFromJSON(data []byte) (*BudgetEvent, error) {
	var ev BudgetEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
