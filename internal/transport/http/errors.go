package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nadupoy/library-lending/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidInput       = "invalid_input"
	codeInvalidID          = "invalid_id"
	codeInvalidDate        = "invalid_date"
	codeInvalidGenre       = "invalid_genre"
	codeBookNotFound       = "book_not_found"
	codeLoanNotFound       = "loan_not_found"
	codeAuthorNotFound     = "author_not_found"
	codeBorrowerNotFound   = "borrower_not_found"
	codeAlreadyBorrowed    = "already_borrowed"
	codeAlreadyReturned    = "already_returned"
	codeReturnBeforeBorrow = "return_before_borrow"
	codeForbidden          = "forbidden"
	codeUnavailable        = "unavailable"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrUnknownBook, http.StatusNotFound, codeBookNotFound},
	{domain.ErrUnknownLoan, http.StatusNotFound, codeLoanNotFound},
	{domain.ErrUnknownAuthor, http.StatusNotFound, codeAuthorNotFound},
	{domain.ErrUnknownBorrower, http.StatusNotFound, codeBorrowerNotFound},
	{domain.ErrAlreadyBorrowed, http.StatusConflict, codeAlreadyBorrowed},
	{domain.ErrAlreadyReturned, http.StatusConflict, codeAlreadyReturned},
	{domain.ErrReturnBeforeBorrow, http.StatusConflict, codeReturnBeforeBorrow},
	{domain.ErrInvalidGenre, http.StatusBadRequest, codeInvalidGenre},
	{domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
	{domain.ErrInvalidID, http.StatusBadRequest, codeInvalidID},
}

// writeServiceError maps domain errors to responses; anything else is logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}

	logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}
