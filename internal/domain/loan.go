package domain

import "time"

type LoanStatus string

const (
	LoanStatusOpen     LoanStatus = "OPEN"
	LoanStatusReturned LoanStatus = "RETURNED"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
)

// Loan is one borrowing episode of a single book copy.
// Only OPEN and RETURNED are persisted; OVERDUE is derived with StatusAt.
type Loan struct {
	ID         string
	BookID     int64
	BorrowerID int64
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     LoanStatus
	CreatedAt  time.Time
}

// Active reports whether the loan still holds its copy.
func (l Loan) Active() bool {
	return l.ReturnDate == nil && l.Status != LoanStatusReturned
}

// StatusAt returns the effective status of the loan on the given day.
func (l Loan) StatusAt(today time.Time) LoanStatus {
	if !l.Active() {
		return LoanStatusReturned
	}
	if DateOf(today).After(l.DueDate) {
		return LoanStatusOverdue
	}
	return LoanStatusOpen
}
