package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nadupoy/library-lending/internal/clock"
	"github.com/nadupoy/library-lending/internal/domain"
)

type BorrowerHistory interface {
	LoansForBorrower(ctx context.Context, borrowerID int64) ([]domain.Loan, error)
}

// HandleBorrowerLoans returns an HTTP handler for GET /borrowers/{id}/loans.
func HandleBorrowerLoans(ledger BorrowerHistory, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		borrowerID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		loans, err := ledger.LoansForBorrower(r.Context(), borrowerID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, toLoanResponses(loans, clock.Today(clk)))
	}
}
