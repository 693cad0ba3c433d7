package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadupoy/library-lending/internal/clock"
	"github.com/nadupoy/library-lending/internal/domain"
)

var testToday = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

type stubLedger struct {
	loan    domain.Loan
	loans   []domain.Loan
	err     error
	gotDay  time.Time
	gotBook int64
}

func (s *stubLedger) Borrow(_ context.Context, bookID, _ int64, today time.Time) (domain.Loan, error) {
	s.gotBook, s.gotDay = bookID, today
	return s.loan, s.err
}

func (s *stubLedger) ReturnLoan(_ context.Context, _ string, today time.Time) (domain.Loan, error) {
	s.gotDay = today
	return s.loan, s.err
}

func (s *stubLedger) Loan(context.Context, string) (domain.Loan, error) {
	return s.loan, s.err
}

func (s *stubLedger) OverdueLoans(_ context.Context, today time.Time) ([]domain.Loan, error) {
	s.gotDay = today
	return s.loans, s.err
}

type stubBorrowers struct {
	err error
}

func (s stubBorrowers) GetBorrower(_ context.Context, id int64) (domain.Borrower, error) {
	return domain.Borrower{ID: id}, s.err
}

func openLoan() domain.Loan {
	return domain.Loan{
		ID:         "6f1c2a4e-1b7d-4c1e-9a55-0d3f5b6a7c8d",
		BookID:     7,
		BorrowerID: 3,
		BorrowDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:     domain.LoanStatusOpen,
	}
}

func TestHandleBorrow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		body           string
		borrowerErr    error
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"book_id":7,"borrower_id":3}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"due_date":"2024-01-15"`,
		},
		{
			name:           "wrong method",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedSubstr: codeMethodNotAllowed,
		},
		{
			name:           "invalid json",
			body:           `{"book_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeInvalidRequestBody,
		},
		{
			name:           "unknown field",
			body:           `{"book_id":7,"borrower_id":3,"copies":2}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeInvalidRequestBody,
		},
		{
			name:           "missing borrower",
			body:           `{"book_id":7}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "borrower_id is required",
		},
		{
			name:           "negative book id",
			body:           `{"book_id":-1,"borrower_id":3}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeInvalidInput,
		},
		{
			name:           "unknown borrower",
			body:           `{"book_id":7,"borrower_id":3}`,
			borrowerErr:    domain.ErrUnknownBorrower,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: codeBorrowerNotFound,
		},
		{
			name:           "unknown book",
			body:           `{"book_id":7,"borrower_id":3}`,
			serviceErr:     domain.ErrUnknownBook,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: codeBookNotFound,
		},
		{
			name:           "already borrowed",
			body:           `{"book_id":7,"borrower_id":3}`,
			serviceErr:     &domain.AlreadyBorrowedError{BookID: 7, LoanID: "loan-1"},
			expectedStatus: http.StatusConflict,
			expectedSubstr: "loan-1",
		},
		{
			name:           "internal error",
			body:           `{"book_id":7,"borrower_id":3}`,
			serviceErr:     errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: codeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := &stubLedger{loan: openLoan(), err: tt.serviceErr}
			handler := HandleBorrow(ledger, stubBorrowers{err: tt.borrowerErr}, clock.NewFixed(testToday.Add(9*time.Hour)), slog.New(slog.DiscardHandler))

			method := tt.method
			if method == "" {
				method = http.MethodPost
			}
			req := httptest.NewRequest(method, "/loans", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, testToday, ledger.gotDay, "borrow uses the calendar date of the clock")
				assert.Equal(t, int64(7), ledger.gotBook)
			}
		})
	}
}

func TestHandleBorrow_LogsInternalErrors(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	ledger := &stubLedger{err: errors.New("connection reset")}
	handler := HandleBorrow(ledger, stubBorrowers{}, clock.NewFixed(testToday), newBufferLogger(buf))

	req := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(`{"book_id":7,"borrower_id":3}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestHandleReturnLoan(t *testing.T) {
	t.Parallel()

	returnedOn := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	returned := openLoan()
	returned.ReturnDate = &returnedOn
	returned.Status = domain.LoanStatusReturned

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{name: "success", expectedStatus: http.StatusOK, expectedSubstr: `"return_date":"2024-01-20"`},
		{name: "unknown loan", serviceErr: domain.ErrUnknownLoan, expectedStatus: http.StatusNotFound, expectedSubstr: codeLoanNotFound},
		{name: "already returned", serviceErr: domain.ErrAlreadyReturned, expectedStatus: http.StatusConflict, expectedSubstr: codeAlreadyReturned},
		{name: "return before borrow", serviceErr: domain.ErrReturnBeforeBorrow, expectedStatus: http.StatusConflict, expectedSubstr: codeReturnBeforeBorrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := &stubLedger{loan: returned, err: tt.serviceErr}
			mux := http.NewServeMux()
			mux.Handle("/loans/{id}/return", HandleReturnLoan(ledger, clock.NewFixed(testToday), slog.New(slog.DiscardHandler)))

			req := httptest.NewRequest(http.MethodPost, "/loans/"+returned.ID+"/return", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
		})
	}
}

func TestHandleGetLoan_ReportsEffectiveStatus(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{loan: openLoan()}
	mux := http.NewServeMux()
	mux.Handle("/loans/{id}", HandleGetLoan(ledger, clock.NewFixed(testToday), slog.New(slog.DiscardHandler)))

	req := httptest.NewRequest(http.MethodGet, "/loans/"+openLoan().ID, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp loanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, string(domain.LoanStatusOverdue), resp.Status)
	assert.Nil(t, resp.ReturnDate)
}

func TestHandleOverdueLoans_AsOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedDay    time.Time
	}{
		{name: "defaults to today", expectedStatus: http.StatusOK, expectedDay: testToday},
		{name: "explicit date", query: "?as_of=2024-02-01", expectedStatus: http.StatusOK, expectedDay: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{name: "malformed date", query: "?as_of=01/02/2024", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := &stubLedger{loans: []domain.Loan{openLoan()}}
			handler := HandleOverdueLoans(ledger, clock.NewFixed(testToday), slog.New(slog.DiscardHandler))

			req := httptest.NewRequest(http.MethodGet, "/loans/overdue"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.Contains(t, rec.Body.String(), codeInvalidDate)
				return
			}
			assert.Equal(t, tt.expectedDay, ledger.gotDay)

			var resp []loanResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.Len(t, resp, 1)
			assert.Equal(t, string(domain.LoanStatusOverdue), resp[0].Status)
		})
	}
}
