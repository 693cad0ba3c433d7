package http

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadupoy/library-lending/internal/app"
	"github.com/nadupoy/library-lending/internal/clock"
	"github.com/nadupoy/library-lending/internal/domain"
	"github.com/nadupoy/library-lending/internal/storage/postgres"
	"github.com/nadupoy/library-lending/internal/testutil"
)

func TestRouter_PostgresIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	book := testutil.InsertAuthorAndBook(t, ctx, pool, "The Hound of the Baskervilles", domain.GenreMystery)

	catalogRepo := postgres.NewCatalogRepository(pool)
	clk := clock.NewFixed(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	h := NewRouter(RouterConfig{
		Ledger:  app.NewLendingLedger(postgres.NewLoanRepository(pool), catalogRepo, clk),
		Catalog: app.NewCatalogService(catalogRepo),
		Clock:   clk,
		Logger:  slog.New(slog.DiscardHandler),
		Ping:    pool.Ping,
	})

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/admin/borrowers", `{"first_name":"John","last_name":"Watson","email":"watson@example.com","phone_number":"0207"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	borrower := decode[borrowerResponse](t, rec)

	rec = do(t, h, http.MethodPost, "/loans", `{"book_id":`+itoa(book.ID)+`,"borrower_id":`+itoa(borrower.ID)+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	loan := decode[loanResponse](t, rec)
	assert.Equal(t, "2024-03-15", loan.DueDate)

	rec = do(t, h, http.MethodPost, "/loans", `{"book_id":`+itoa(book.ID)+`,"borrower_id":`+itoa(borrower.ID)+`}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/loans/overdue?as_of=2024-04-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	overdue := decode[[]loanResponse](t, rec)
	require.Len(t, overdue, 1)
	assert.Equal(t, loan.ID, overdue[0].ID)

	rec = do(t, h, http.MethodPost, "/loans/"+loan.ID+"/return", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/library", "")
	require.Equal(t, http.StatusOK, rec.Code)
	library := decode[[]bookResponse](t, rec)
	require.Len(t, library, 1)
	assert.Equal(t, "Mystery", library[0].GenreLabel)
}
