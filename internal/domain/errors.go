package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBook        = errors.New("unknown book")
	ErrUnknownLoan        = errors.New("unknown loan")
	ErrUnknownAuthor      = errors.New("unknown author")
	ErrUnknownBorrower    = errors.New("unknown borrower")
	ErrAlreadyBorrowed    = errors.New("book already borrowed")
	ErrAlreadyReturned    = errors.New("loan already returned")
	ErrReturnBeforeBorrow = errors.New("return date before borrow date")
	ErrInvalidGenre       = errors.New("invalid genre")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidID          = errors.New("invalid id")
)

// AlreadyBorrowedError reports the open loan that blocks a new borrow.
// It matches ErrAlreadyBorrowed under errors.Is.
type AlreadyBorrowedError struct {
	BookID int64
	LoanID string
}

func (e *AlreadyBorrowedError) Error() string {
	return fmt.Sprintf("book %d already borrowed by loan %s", e.BookID, e.LoanID)
}

func (e *AlreadyBorrowedError) Is(target error) bool {
	return target == ErrAlreadyBorrowed
}
