// Package ledger implements the expense side of the store: add, remove,
// listing and the date-range aggregation behind the dashboard.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/core"
	"gastos/internal/events"
	"gastos/internal/storage"
)

// EventPublisher is the optional audit stream. *events.Client satisfies it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, action string, expenseID int64) error
}

type Service struct {
	repo      *storage.Repository
	publisher EventPublisher
}

// NewService builds the ledger. publisher may be nil; writes then stay
// purely local.
func NewService(repo *storage.Repository, publisher EventPublisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// AddExpense parses and validates the form fields, persists the row and
// returns its id. The amount string is the raw form value; it is stored in
// cents, never as a float.
func (s *Service) AddExpense(ctx context.Context, owner *int64, amount, category string, date core.Date, description string) (int64, error) {
	cents, err := core.ParseAmountToCents(amount)
	if err != nil {
		return 0, err
	}

	expense := core.Expense{
		UserID:      owner,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
		Description: description,
	}
	if err := expense.Validate(); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}

	s.publish(ctx, events.ActionExpenseCreated, id)
	return id, nil
}

// RemoveExpense deletes a row. Removing an id that is already gone is a
// no-op, so a stale selection cannot fail.
func (s *Service) RemoveExpense(ctx context.Context, id int64) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("remove expense: %w", err)
	}

	s.publish(ctx, events.ActionExpenseDeleted, id)
	return nil
}

// GetExpense returns one row, or NotFoundError.
func (s *Service) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

// ListExpenses returns rows for display, optionally filtered to one owner.
func (s *Service) ListExpenses(ctx context.Context, owner *int64, sort core.SortMode) ([]core.Expense, error) {
	return s.repo.ListExpenses(ctx, owner, sort)
}

// SumInRange totals the closed interval [start, end].
func (s *Service) SumInRange(ctx context.Context, owner *int64, start, end core.Date) (core.Money, error) {
	if start.IsZero() || end.IsZero() {
		return core.Money{}, &core.ValidationError{Field: "range", Reason: "start and end are required"}
	}
	if end.Before(start.Time) {
		return core.Money{}, &core.ValidationError{Field: "range", Reason: "end must not precede start"}
	}
	return s.repo.SumInRange(ctx, owner, start, end)
}

// DashboardTotals computes the stats panel sums from one reference date:
// the day itself, its Monday-to-Sunday week, its calendar month, the month
// before it (rolling the year back at January) and its calendar year.
func (s *Service) DashboardTotals(ctx context.Context, owner *int64, today core.Date) (core.DashboardTotals, error) {
	if err := today.Validate(); err != nil {
		return core.DashboardTotals{}, err
	}

	weekStart, weekEnd := core.WeekRange(today)
	monthStart, monthEnd := core.MonthRange(today)
	prevStart, prevEnd := core.PrevMonthRange(today)
	yearStart, yearEnd := core.YearRange(today)

	var totals core.DashboardTotals
	ranges := []struct {
		name       string
		start, end core.Date
		dest       *core.Money
	}{
		{"today", today, today, &totals.Today},
		{"this_week", weekStart, weekEnd, &totals.ThisWeek},
		{"this_month", monthStart, monthEnd, &totals.ThisMonth},
		{"last_month", prevStart, prevEnd, &totals.LastMonth},
		{"this_year", yearStart, yearEnd, &totals.ThisYear},
	}

	for _, r := range ranges {
		sum, err := s.repo.SumInRange(ctx, owner, r.start, r.end)
		if err != nil {
			return core.DashboardTotals{}, fmt.Errorf("dashboard %s total: %w", r.name, err)
		}
		*r.dest = sum
	}

	return totals, nil
}

// publish emits an audit event when a publisher is wired. Publish failures
// are logged and never fail the write that triggered them.
func (s *Service) publish(ctx context.Context, action string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", action, "expense_id", id, "error", err)
	}
}
