package app

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/nadupoy/library-lending/internal/clock"
	"github.com/nadupoy/library-lending/internal/domain"
)

// LoanRepository persists loans. SaveLoan creates or updates a single loan.
type LoanRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockBook(ctx context.Context, bookID int64) error
	SaveLoan(ctx context.Context, loan domain.Loan) error
	GetLoan(ctx context.Context, loanID string) (domain.Loan, error)
	FindLoansByBook(ctx context.Context, bookID int64) ([]domain.Loan, error)
	FindLoansByBorrower(ctx context.Context, borrowerID int64) ([]domain.Loan, error)
	FindOpenLoansDueBefore(ctx context.Context, day time.Time) ([]domain.Loan, error)
}

// BookResolver looks up catalog books; unknown ids yield domain.ErrUnknownBook.
type BookResolver interface {
	ResolveBook(ctx context.Context, bookID int64) (domain.Book, error)
}

// LendingLedger owns the borrowing records and enforces one open loan per book.
type LendingLedger struct {
	repo       LoanRepository
	books      BookResolver
	clock      clock.Clock
	loanPeriod int
	logger     *slog.Logger
	locks      *bookLocks
}

const defaultLoanPeriodDays = 14

func NewLendingLedger(repo LoanRepository, books BookResolver, clk clock.Clock, opts ...LendingLedgerOption) *LendingLedger {
	l := &LendingLedger{
		repo:       repo,
		books:      books,
		clock:      clk,
		loanPeriod: defaultLoanPeriodDays,
		logger:     slog.New(slog.DiscardHandler),
		locks:      newBookLocks(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type LendingLedgerOption func(*LendingLedger)

// WithLoanPeriodDays overrides the default loan period for new loans.
func WithLoanPeriodDays(days int) LendingLedgerOption {
	return func(l *LendingLedger) {
		if days > 0 {
			l.loanPeriod = days
		}
	}
}

func WithLogger(logger *slog.Logger) LendingLedgerOption {
	return func(l *LendingLedger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// LoanPeriodDays reports the configured loan period.
func (l *LendingLedger) LoanPeriodDays() int {
	return l.loanPeriod
}

// Borrow opens a loan of bookID for borrowerID starting today.
func (l *LendingLedger) Borrow(ctx context.Context, bookID, borrowerID int64, today time.Time) (domain.Loan, error) {
	today = domain.DateOf(today)

	if _, err := l.books.ResolveBook(ctx, bookID); err != nil {
		return domain.Loan{}, err
	}

	unlock := l.locks.lock(bookID)
	defer unlock()

	var result domain.Loan
	err := l.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := l.repo.LockBook(txCtx, bookID); err != nil {
			return err
		}

		loans, err := l.repo.FindLoansByBook(txCtx, bookID)
		if err != nil {
			return err
		}
		for _, existing := range loans {
			if existing.Active() {
				return &domain.AlreadyBorrowedError{BookID: bookID, LoanID: existing.ID}
			}
		}

		loan := domain.Loan{
			ID:         newLoanID(),
			BookID:     bookID,
			BorrowerID: borrowerID,
			BorrowDate: today,
			DueDate:    today.AddDate(0, 0, l.loanPeriod),
			Status:     domain.LoanStatusOpen,
			CreatedAt:  l.clock.Now(),
		}
		if err := l.repo.SaveLoan(txCtx, loan); err != nil {
			return err
		}

		result = loan
		return nil
	})
	if err != nil {
		l.logger.DebugContext(ctx, "borrow rejected",
			slog.Int64("book_id", bookID),
			slog.Int64("borrower_id", borrowerID),
			slog.String("error", err.Error()),
		)
		return domain.Loan{}, err
	}

	l.logger.InfoContext(ctx, "book borrowed",
		slog.String("loan_id", result.ID),
		slog.Int64("book_id", bookID),
		slog.Int64("borrower_id", borrowerID),
		slog.String("due_date", result.DueDate.Format(domain.DateLayout)),
	)
	return result, nil
}

// ReturnLoan closes an open or overdue loan as of today.
func (l *LendingLedger) ReturnLoan(ctx context.Context, loanID string, today time.Time) (domain.Loan, error) {
	today = domain.DateOf(today)

	if !validLoanID(loanID) {
		return domain.Loan{}, domain.ErrUnknownLoan
	}

	loan, err := l.repo.GetLoan(ctx, loanID)
	if err != nil {
		return domain.Loan{}, err
	}

	unlock := l.locks.lock(loan.BookID)
	defer unlock()

	err = l.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := l.repo.LockBook(txCtx, loan.BookID); err != nil {
			return err
		}

		// Re-read under the lock; a concurrent return may have won.
		current, err := l.repo.GetLoan(txCtx, loanID)
		if err != nil {
			return err
		}
		if !current.Active() {
			return domain.ErrAlreadyReturned
		}
		if today.Before(current.BorrowDate) {
			return domain.ErrReturnBeforeBorrow
		}

		returned := today
		current.ReturnDate = &returned
		current.Status = domain.LoanStatusReturned
		if err := l.repo.SaveLoan(txCtx, current); err != nil {
			return err
		}

		loan = current
		return nil
	})
	if err != nil {
		l.logger.DebugContext(ctx, "return rejected",
			slog.String("loan_id", loanID),
			slog.String("error", err.Error()),
		)
		return domain.Loan{}, err
	}

	l.logger.InfoContext(ctx, "book returned",
		slog.String("loan_id", loan.ID),
		slog.Int64("book_id", loan.BookID),
		slog.Bool("late", today.After(loan.DueDate)),
	)
	return loan, nil
}

// IsAvailable reports whether bookID has no open or overdue loan on today.
func (l *LendingLedger) IsAvailable(ctx context.Context, bookID int64, today time.Time) (bool, error) {
	if _, err := l.books.ResolveBook(ctx, bookID); err != nil {
		return false, err
	}

	loans, err := l.repo.FindLoansByBook(ctx, bookID)
	if err != nil {
		return false, err
	}
	for _, loan := range loans {
		if loan.StatusAt(today) != domain.LoanStatusReturned {
			return false, nil
		}
	}
	return true, nil
}

// Loan returns a single loan by id.
func (l *LendingLedger) Loan(ctx context.Context, loanID string) (domain.Loan, error) {
	if !validLoanID(loanID) {
		return domain.Loan{}, domain.ErrUnknownLoan
	}
	return l.repo.GetLoan(ctx, loanID)
}

// LoansForBorrower returns every loan of a borrower, oldest borrow first.
func (l *LendingLedger) LoansForBorrower(ctx context.Context, borrowerID int64) ([]domain.Loan, error) {
	loans, err := l.repo.FindLoansByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	sortByBorrowDate(loans)
	return loans, nil
}

// LoansForBook returns the lending history of a book, oldest borrow first.
func (l *LendingLedger) LoansForBook(ctx context.Context, bookID int64) ([]domain.Loan, error) {
	if _, err := l.books.ResolveBook(ctx, bookID); err != nil {
		return nil, err
	}
	loans, err := l.repo.FindLoansByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	sortByBorrowDate(loans)
	return loans, nil
}

// OverdueLoans returns the loans that are overdue on today, earliest due date first.
func (l *LendingLedger) OverdueLoans(ctx context.Context, today time.Time) ([]domain.Loan, error) {
	today = domain.DateOf(today)

	candidates, err := l.repo.FindOpenLoansDueBefore(ctx, today)
	if err != nil {
		return nil, err
	}

	overdue := make([]domain.Loan, 0, len(candidates))
	for _, loan := range candidates {
		if loan.StatusAt(today) != domain.LoanStatusOverdue {
			continue
		}
		loan.Status = domain.LoanStatusOverdue
		overdue = append(overdue, loan)
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		a, b := overdue[i], overdue[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if !a.BorrowDate.Equal(b.BorrowDate) {
			return a.BorrowDate.Before(b.BorrowDate)
		}
		return a.ID < b.ID
	})
	return overdue, nil
}

func sortByBorrowDate(loans []domain.Loan) {
	sort.SliceStable(loans, func(i, j int) bool {
		a, b := loans[i], loans[j]
		if !a.BorrowDate.Equal(b.BorrowDate) {
			return a.BorrowDate.Before(b.BorrowDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

