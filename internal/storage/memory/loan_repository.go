// Package memory keeps catalog and loan records in process memory.
// It backs STORAGE=memory and the service unit tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/nadupoy/library-lending/internal/domain"
)

// LoanRepository relies on the ledger's per-book locks for borrow/return
// exclusion; WithTx and LockBook are pass-throughs.
type LoanRepository struct {
	mu    sync.RWMutex
	loans map[string]domain.Loan
}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{loans: make(map[string]domain.Loan)}
}

func (r *LoanRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *LoanRepository) LockBook(context.Context, int64) error {
	return nil
}

func (r *LoanRepository) SaveLoan(_ context.Context, loan domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loans[loan.ID] = copyLoan(loan)
	return nil
}

func (r *LoanRepository) GetLoan(_ context.Context, loanID string) (domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loan, ok := r.loans[loanID]
	if !ok {
		return domain.Loan{}, domain.ErrUnknownLoan
	}
	return copyLoan(loan), nil
}

func (r *LoanRepository) FindLoansByBook(_ context.Context, bookID int64) ([]domain.Loan, error) {
	return r.filter(func(l domain.Loan) bool { return l.BookID == bookID }), nil
}

func (r *LoanRepository) FindLoansByBorrower(_ context.Context, borrowerID int64) ([]domain.Loan, error) {
	return r.filter(func(l domain.Loan) bool { return l.BorrowerID == borrowerID }), nil
}

func (r *LoanRepository) FindOpenLoansDueBefore(_ context.Context, day time.Time) ([]domain.Loan, error) {
	return r.filter(func(l domain.Loan) bool { return l.Active() && l.DueDate.Before(day) }), nil
}

func (r *LoanRepository) filter(keep func(domain.Loan) bool) []domain.Loan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Loan, 0)
	for _, loan := range r.loans {
		if keep(loan) {
			out = append(out, copyLoan(loan))
		}
	}
	return out
}

func copyLoan(l domain.Loan) domain.Loan {
	if l.ReturnDate != nil {
		d := *l.ReturnDate
		l.ReturnDate = &d
	}
	return l
}
