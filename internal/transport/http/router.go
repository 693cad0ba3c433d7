package http

import (
	"log/slog"
	"net/http"

	"github.com/nadupoy/library-lending/internal/app"
	"github.com/nadupoy/library-lending/internal/clock"
)

// RouterConfig carries what NewRouter wires into the handlers.
type RouterConfig struct {
	Ledger      *app.LendingLedger
	Catalog     *app.CatalogService
	Clock       clock.Clock
	Logger      *slog.Logger
	Ping        Pinger
	CORSOrigins []string
}

// NewRouter registers every endpoint and wraps the mux with CORS and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}

	mux := http.NewServeMux()
	mux.Handle("/health", HandleHealth(cfg.Ping, logger))

	mux.Handle("/library", HandleLibrary(cfg.Catalog, logger))
	mux.Handle("/library/{title}", HandleBookDetails(cfg.Catalog, cfg.Ledger, clk, logger))
	mux.Handle("/books/{id}/availability", HandleBookAvailability(cfg.Ledger, clk, logger))
	mux.Handle("/books/{id}/loans", HandleBookLoans(cfg.Ledger, clk, logger))

	mux.Handle("/loans", HandleBorrow(cfg.Ledger, cfg.Catalog, clk, logger))
	mux.Handle("/loans/overdue", HandleOverdueLoans(cfg.Ledger, clk, logger))
	mux.Handle("/loans/{id}", HandleGetLoan(cfg.Ledger, clk, logger))
	mux.Handle("/loans/{id}/return", HandleReturnLoan(cfg.Ledger, clk, logger))
	mux.Handle("/borrowers/{id}/loans", HandleBorrowerLoans(cfg.Ledger, clk, logger))

	mux.Handle("/admin/authors", HandleAdminAuthors(cfg.Catalog, logger))
	mux.Handle("/admin/books", HandleAdminBooks(cfg.Catalog, logger))
	mux.Handle("/admin/borrowers", HandleAdminBorrowers(cfg.Catalog, logger))
	mux.Handle("/admin/borrowers/{id}", HandleAdminBorrower(cfg.Catalog, logger))

	mux.Handle("/", NotFoundHandler())

	return RequestLogger(CORS(cfg.CORSOrigins, mux), logger)
}
