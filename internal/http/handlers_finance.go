package http

import (
	"log/slog"
	"net/http"

	"successpath/internal/core"
	"successpath/internal/finance"
	"successpath/internal/log"
)

const summaryWindowDays = 30

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse(s.ledger.Transactions()).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in := finance.TransactionInput{
		Type:        p.Get("type"),
		Category:    p.Get("category"),
		Amount:      p.Get("amount"),
		Description: p.Get("description"),
		Date:        p.Get("date"),
	}
	if in.Date != "" {
		if _, err := core.ParseDate(in.Date); err != nil {
			UnprocessableEntityError("invalid date: use YYYY-MM-DD").Write(w)
			return
		}
	}

	tx, err := s.ledger.AddTransaction(r.Context(), in)
	if err != nil {
		log.FromContext(r.Context()).Failure(r.Context(), "Transaction save failed", log.OpCreate, err)
		InternalServerError("failed to save transaction").Write(w)
		return
	}
	slog.InfoContext(r.Context(), "Transaction recorded",
		log.FieldTxID, tx.ID,
		log.FieldTxType, tx.Type,
		log.FieldCategory, tx.Category,
		log.FieldAmount, tx.Amount.String())
	NewJSONResponse(tx).Status(http.StatusCreated).Write(w)
}

type financeSummary struct {
	Since      core.Date               `json:"since"`
	Totals     finance.Totals          `json:"totals"`
	NonNeg     bool                    `json:"non_negative"`
	ByCategory []finance.CategoryTotal `json:"by_category"`
	AllTime    finance.Totals          `json:"all_time"`
}

// handleFinanceSummary folds the trailing window (30 days unless ?days= says
// otherwise) and the whole ledger.
func (s *Server) handleFinanceSummary(w http.ResponseWriter, r *http.Request) {
	days, err := parseIntQuery(r.URL.Query(), "days", summaryWindowDays, 1, 3660)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	since := core.DateOf(s.today().AddDate(0, 0, -days))
	tot := s.ledger.TotalsSince(since)
	NewJSONResponse(financeSummary{
		Since:      since,
		Totals:     tot,
		NonNeg:     tot.NonNegative(),
		ByCategory: s.ledger.ByCategory(),
		AllTime:    s.ledger.Totals(),
	}).Write(w)
}

func (s *Server) handleFinanceMonthly(w http.ResponseWriter, r *http.Request) {
	months, err := parseIntQuery(r.URL.Query(), "months", 6, 1, 120)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	today := s.today()
	since := core.NewDate(today.Year(), today.Month(), 1)
	since = core.DateOf(since.AddDate(0, -(months - 1), 0))
	NewJSONResponse(s.ledger.Monthly(since)).Write(w)
}
