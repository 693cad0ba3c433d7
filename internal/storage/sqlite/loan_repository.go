package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/nadupoy/library-lending/internal/domain"
)

const (
	loansTable      = "loans"
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type loanRow struct {
	ID         string         `db:"id"`
	BookID     int64          `db:"book_id"`
	BorrowerID int64          `db:"borrower_id"`
	BorrowDate string         `db:"borrow_date"`
	DueDate    string         `db:"due_date"`
	ReturnDate sql.NullString `db:"return_date"`
	Status     string         `db:"status"`
	CreatedAt  string         `db:"created_at"`
}

func toLoanRow(l domain.Loan) loanRow {
	row := loanRow{
		ID:         l.ID,
		BookID:     l.BookID,
		BorrowerID: l.BorrowerID,
		BorrowDate: l.BorrowDate.Format(domain.DateLayout),
		DueDate:    l.DueDate.Format(domain.DateLayout),
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt.UTC().Format(timestampLayout),
	}
	if l.ReturnDate != nil {
		row.ReturnDate = sql.NullString{String: l.ReturnDate.Format(domain.DateLayout), Valid: true}
	}
	return row
}

func (r loanRow) toDomain() (domain.Loan, error) {
	l := domain.Loan{
		ID:         r.ID,
		BookID:     r.BookID,
		BorrowerID: r.BorrowerID,
		Status:     domain.LoanStatus(r.Status),
	}
	var err error
	if l.BorrowDate, err = domain.ParseDate(r.BorrowDate); err != nil {
		return domain.Loan{}, fmt.Errorf("parse borrow_date: %w", err)
	}
	if l.DueDate, err = domain.ParseDate(r.DueDate); err != nil {
		return domain.Loan{}, fmt.Errorf("parse due_date: %w", err)
	}
	if r.ReturnDate.Valid {
		d, err := domain.ParseDate(r.ReturnDate.String)
		if err != nil {
			return domain.Loan{}, fmt.Errorf("parse return_date: %w", err)
		}
		l.ReturnDate = &d
	}
	if l.CreatedAt, err = time.Parse(timestampLayout, r.CreatedAt); err != nil {
		return domain.Loan{}, fmt.Errorf("parse created_at: %w", err)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return l, nil
}

type LoanRepository struct {
	db *DB
}

func NewLoanRepository(db *DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.withTx(ctx, fn)
}

// LockBook is a no-op: the single connection already serializes transactions.
func (r *LoanRepository) LockBook(context.Context, int64) error {
	return nil
}

func (r *LoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	row := toLoanRow(loan)

	update := dialect.Update(loansTable).
		Set(goqu.Record{"return_date": row.ReturnDate, "status": row.Status}).
		Where(goqu.C("id").Eq(row.ID)).
		Prepared(true)
	affected, _, err := r.db.exec(ctx, update)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := dialect.Insert(loansTable).Rows(row).Prepared(true)
	if _, _, err := r.db.exec(ctx, insert); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyBorrowed
		}
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (r *LoanRepository) GetLoan(ctx context.Context, loanID string) (domain.Loan, error) {
	var row loanRow
	err := r.db.get(ctx, &row, r.selectLoans().Where(goqu.C("id").Eq(loanID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Loan{}, domain.ErrUnknownLoan
		}
		return domain.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	return row.toDomain()
}

func (r *LoanRepository) FindLoansByBook(ctx context.Context, bookID int64) ([]domain.Loan, error) {
	loans, err := r.list(ctx, r.selectLoans().
		Where(goqu.C("book_id").Eq(bookID)).
		Order(goqu.C("borrow_date").Asc(), goqu.C("created_at").Asc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("find loans by book: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) FindLoansByBorrower(ctx context.Context, borrowerID int64) ([]domain.Loan, error) {
	loans, err := r.list(ctx, r.selectLoans().
		Where(goqu.C("borrower_id").Eq(borrowerID)).
		Order(goqu.C("borrow_date").Asc(), goqu.C("created_at").Asc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("find loans by borrower: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) FindOpenLoansDueBefore(ctx context.Context, day time.Time) ([]domain.Loan, error) {
	loans, err := r.list(ctx, r.selectLoans().
		Where(
			goqu.C("return_date").IsNull(),
			goqu.C("due_date").Lt(day.Format(domain.DateLayout)),
		).
		Order(goqu.C("due_date").Asc(), goqu.C("borrow_date").Asc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("find overdue loans: %w", err)
	}
	return loans, nil
}

func (r *LoanRepository) selectLoans() *goqu.SelectDataset {
	return dialect.From(loansTable).Select(&loanRow{}).Prepared(true)
}

func (r *LoanRepository) list(ctx context.Context, ds *goqu.SelectDataset) ([]domain.Loan, error) {
	var rows []loanRow
	if err := r.db.selectAll(ctx, &rows, ds); err != nil {
		return nil, err
	}
	loans := make([]domain.Loan, 0, len(rows))
	for _, row := range rows {
		l, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, nil
}
