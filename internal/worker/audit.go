// Package worker turns the AMQP audit stream into structured log lines,
// enriching each event with the current state of the referenced expense.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gastos/internal/core"
	"gastos/internal/events"
)

// ExpenseReader is the slice of the repository the audit worker needs.
type ExpenseReader interface {
	GetExpense(ctx context.Context, id int64) (*core.Expense, error)
}

type AuditWorker struct {
	reader ExpenseReader
}

func NewAuditWorker(reader ExpenseReader) *AuditWorker {
	return &AuditWorker{reader: reader}
}

// HandleEvent logs one audit event. Created events are enriched from the
// store; a row that is already gone again is logged as such rather than
// treated as a failure, so the delivery is not requeued forever.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *events.ExpenseEvent) error {
	switch event.Action {
	case events.ActionExpenseCreated:
		expense, err := w.reader.GetExpense(ctx, event.ExpenseID)
		if err != nil {
			var notFound *core.NotFoundError
			if errors.As(err, &notFound) {
				slog.InfoContext(ctx, "Audit: expense created but no longer present",
					"expense_id", event.ExpenseID,
					"occurred_at", event.Timestamp)
				return nil
			}
			return fmt.Errorf("load expense %d: %w", event.ExpenseID, err)
		}

		slog.InfoContext(ctx, "Audit: expense created",
			"expense_id", expense.ID,
			"amount", expense.Amount.String(),
			"category", expense.Category,
			"date", expense.Date.String(),
			"occurred_at", event.Timestamp)
		return nil

	case events.ActionExpenseDeleted:
		slog.InfoContext(ctx, "Audit: expense deleted",
			"expense_id", event.ExpenseID,
			"occurred_at", event.Timestamp)
		return nil

	default:
		slog.WarnContext(ctx, "Audit: unknown action",
			"action", event.Action,
			"expense_id", event.ExpenseID)
		return nil
	}
}
