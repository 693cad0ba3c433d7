package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nadupoy/library-lending/internal/app"
	"github.com/nadupoy/library-lending/internal/clock"
	"github.com/nadupoy/library-lending/internal/domain"
)

type BookLister interface {
	ListBooks(ctx context.Context) ([]app.BookEntry, error)
}

type BookFinder interface {
	BookByTitle(ctx context.Context, title string) (app.BookEntry, error)
}

// AvailabilityChecker answers whether a book can be borrowed on a given day.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, bookID int64, today time.Time) (bool, error)
}

type BookHistory interface {
	LoansForBook(ctx context.Context, bookID int64) ([]domain.Loan, error)
}

// HandleLibrary returns an HTTP handler for GET /library.
func HandleLibrary(svc BookLister, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		entries, err := svc.ListBooks(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		resp := make([]bookResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toBookResponse(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleBookDetails returns an HTTP handler for GET /library/{title}.
func HandleBookDetails(svc BookFinder, ledger AvailabilityChecker, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		entry, err := svc.BookByTitle(r.Context(), r.PathValue("title"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		available, err := ledger.IsAvailable(r.Context(), entry.Book.ID, clock.Today(clk))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		resp := toBookResponse(entry)
		resp.Available = &available
		writeJSON(w, http.StatusOK, resp)
	}
}

type availabilityResponse struct {
	BookID    int64  `json:"book_id"`
	AsOf      string `json:"as_of"`
	Available bool   `json:"available"`
}

// HandleBookAvailability returns an HTTP handler for GET /books/{id}/availability.
func HandleBookAvailability(ledger AvailabilityChecker, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		bookID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		today, ok := asOf(w, r, clk)
		if !ok {
			return
		}

		available, err := ledger.IsAvailable(r.Context(), bookID, today)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, availabilityResponse{
			BookID:    bookID,
			AsOf:      today.Format(domain.DateLayout),
			Available: available,
		})
	}
}

// HandleBookLoans returns an HTTP handler for GET /books/{id}/loans.
func HandleBookLoans(ledger BookHistory, clk clock.Clock, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		bookID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		loans, err := ledger.LoansForBook(r.Context(), bookID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, toLoanResponses(loans, clock.Today(clk)))
	}
}
