package http

import (
	"net/http"
	"strconv"
	"strings"

	"gastos/internal/core"
)

// expenseJSON is the wire shape of a ledger row. The amount travels both as
// cents and as the canonical two-decimal string; glyphs and separators are
// the client's job.
type expenseJSON struct {
	ID          int64  `json:"id"`
	UserID      *int64 `json:"user_id,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		UserID:      e.UserID,
		AmountCents: e.Amount.Cents,
		Amount:      e.Amount.String(),
		Category:    e.Category,
		Date:        e.Date.String(),
		Description: e.Description,
	}
}

type addExpenseRequest struct {
	UserID      *int64 `json:"user_id"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.ledger.AddExpense(r.Context(), req.UserID, req.Amount, req.Category, date, strings.TrimSpace(req.Description))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

// parseOwner reads the optional owner query parameter.
func parseOwner(r *http.Request) (*int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("owner"))
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, &core.ValidationError{Field: "owner", Reason: "must be an integer"}
	}
	return &id, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sort, err := core.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	expenses, err := s.ledger.ListExpenses(r.Context(), owner, sort)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]expenseJSON, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseJSON(e))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"expenses": out})
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, &core.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	if err := s.ledger.RemoveExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSumInRange(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	start, err := core.ParseDate(strings.TrimSpace(r.URL.Query().Get("start")))
	if err != nil {
		writeError(w, r, &core.ValidationError{Field: "start", Reason: "must be YYYY-MM-DD"})
		return
	}
	end, err := core.ParseDate(strings.TrimSpace(r.URL.Query().Get("end")))
	if err != nil {
		writeError(w, r, &core.ValidationError{Field: "end", Reason: "must be YYYY-MM-DD"})
		return
	}

	total, err := s.ledger.SumInRange(r.Context(), owner, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"start":       start.String(),
		"end":         end.String(),
		"total_cents": total.Cents,
		"total":       total.String(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"categories": core.Categories})
}
