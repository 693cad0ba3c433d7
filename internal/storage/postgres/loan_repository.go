package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadupoy/library-lending/internal/domain"
)

const loanColumns = `id, book_id, borrower_id, borrow_date, due_date, return_date, status, created_at`

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

func (r *LoanRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// LockBook takes a transaction-scoped advisory lock on the book. It must be
// called inside WithTx to outlive the statement.
func (r *LoanRepository) LockBook(ctx context.Context, bookID int64) error {
	const stmt = `SELECT pg_advisory_xact_lock(hashtextextended('book:' || $1::bigint::text, 0))`
	if _, err := conn(ctx, r.pool).Exec(ctx, stmt, bookID); err != nil {
		return fmt.Errorf("lock book: %w", err)
	}
	return nil
}

func (r *LoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	const stmt = `
INSERT INTO loans (` + loanColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET return_date = EXCLUDED.return_date, status = EXCLUDED.status`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt,
		loan.ID,
		loan.BookID,
		loan.BorrowerID,
		loan.BorrowDate,
		loan.DueDate,
		loan.ReturnDate,
		string(loan.Status),
		loan.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyBorrowed
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("save loan: %w", err)
	}
	return nil
}

func (r *LoanRepository) GetLoan(ctx context.Context, loanID string) (domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(conn(ctx, r.pool).QueryRow(ctx, query, loanID))
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Loan{}, domain.ErrUnknownLoan
		}
		return domain.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) FindLoansByBook(ctx context.Context, bookID int64) ([]domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE book_id = $1 ORDER BY borrow_date, created_at, id`

	loans, err := r.collect(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("find loans by book: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) FindLoansByBorrower(ctx context.Context, borrowerID int64) ([]domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE borrower_id = $1 ORDER BY borrow_date, created_at, id`

	loans, err := r.collect(ctx, query, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("find loans by borrower: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) FindOpenLoansDueBefore(ctx context.Context, day time.Time) ([]domain.Loan, error) {
	const query = `
SELECT ` + loanColumns + `
FROM loans
WHERE return_date IS NULL AND due_date < $1
ORDER BY due_date, borrow_date, id`

	loans, err := r.collect(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("find overdue loans: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) collect(ctx context.Context, sql string, args ...any) ([]domain.Loan, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Loan, error) {
		return scanLoan(row)
	})
}

func scanLoan(row pgx.Row) (domain.Loan, error) {
	var (
		l      domain.Loan
		status string
	)
	err := row.Scan(&l.ID, &l.BookID, &l.BorrowerID, &l.BorrowDate, &l.DueDate, &l.ReturnDate, &status, &l.CreatedAt)
	if err != nil {
		return domain.Loan{}, err
	}
	l.Status = domain.LoanStatus(status)
	l.BorrowDate = domain.DateOf(l.BorrowDate)
	l.DueDate = domain.DateOf(l.DueDate)
	if l.ReturnDate != nil {
		d := domain.DateOf(*l.ReturnDate)
		l.ReturnDate = &d
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return l, nil
}
