package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nadupoy/library-lending/internal/clock"
	"github.com/nadupoy/library-lending/internal/domain"
)

// LoanBorrower is the minimal interface needed to open a loan.
type LoanBorrower interface {
	Borrow(ctx context.Context, bookID, borrowerID int64, today time.Time) (domain.Loan, error)
}

// BorrowerGetter resolves borrowers before a loan is opened.
type BorrowerGetter interface {
	GetBorrower(ctx context.Context, borrowerID int64) (domain.Borrower, error)
}

type LoanReturner interface {
	ReturnLoan(ctx context.Context, loanID string, today time.Time) (domain.Loan, error)
}

type LoanGetter interface {
	Loan(ctx context.Context, loanID string) (domain.Loan, error)
}

type OverdueLister interface {
	OverdueLoans(ctx context.Context, today time.Time) ([]domain.Loan, error)
}

type borrowRequest struct {
	BookID     int64 `json:"book_id" validate:"required,gt=0"`
	BorrowerID int64 `json:"borrower_id" validate:"required,gt=0"`
}

// HandleBorrow returns an HTTP handler for POST /loans.
func HandleBorrow(svc LoanBorrower, borrowers BorrowerGetter, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}

		var req borrowRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if _, err := borrowers.GetBorrower(r.Context(), req.BorrowerID); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		today := clock.Today(clk)
		loan, err := svc.Borrow(r.Context(), req.BookID, req.BorrowerID, today)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, toLoanResponse(loan, today))
	}
}

// HandleGetLoan returns an HTTP handler for GET /loans/{id}.
func HandleGetLoan(svc LoanGetter, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		loan, err := svc.Loan(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, toLoanResponse(loan, clock.Today(clk)))
	}
}

// HandleReturnLoan returns an HTTP handler for POST /loans/{id}/return.
func HandleReturnLoan(svc LoanReturner, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}

		today := clock.Today(clk)
		loan, err := svc.ReturnLoan(r.Context(), r.PathValue("id"), today)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, toLoanResponse(loan, today))
	}
}

// HandleOverdueLoans returns an HTTP handler for GET /loans/overdue.
func HandleOverdueLoans(svc OverdueLister, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		today, ok := asOf(w, r, clk)
		if !ok {
			return
		}

		loans, err := svc.OverdueLoans(r.Context(), today)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, toLoanResponses(loans, today))
	}
}
