package events

import (
	"encoding/json"
	"time"
)

// Event actions carried on the audit stream.
const (
	ActionExpenseCreated = "expense.created"
	ActionExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is the lightweight audit message published after a ledger
// write. It carries only the id and action; consumers fetch the row when
// they need detail.
type ExpenseEvent struct {
	Action    string    `json:"action"`
	ExpenseID int64     `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(action string, expenseID int64) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    action,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
