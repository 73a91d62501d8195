package http

import (
	"net/http"
	"strings"
	"time"

	"gastos/internal/core"
)

type totalJSON struct {
	Cents  int64  `json:"cents"`
	Amount string `json:"amount"`
}

func toTotalJSON(m core.Money) totalJSON {
	return totalJSON{Cents: m.Cents, Amount: m.String()}
}

// handleDashboard returns the stats panel sums. The reference date defaults
// to today and can be overridden for display of historical periods.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	today := core.DateOf(time.Now())
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		today, err = core.ParseDate(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	totals, err := s.ledger.DashboardTotals(r.Context(), owner, today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"date":       today.String(),
		"today":      toTotalJSON(totals.Today),
		"this_week":  toTotalJSON(totals.ThisWeek),
		"this_month": toTotalJSON(totals.ThisMonth),
		"last_month": toTotalJSON(totals.LastMonth),
		"this_year":  toTotalJSON(totals.ThisYear),
	})
}
