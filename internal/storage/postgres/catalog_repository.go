package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadupoy/library-lending/internal/domain"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateAuthor(ctx context.Context, author domain.Author) (domain.Author, error) {
	const stmt = `INSERT INTO authors (first_name, last_name) VALUES ($1, $2) RETURNING id`

	if err := conn(ctx, r.pool).QueryRow(ctx, stmt, author.FirstName, author.LastName).Scan(&author.ID); err != nil {
		return domain.Author{}, fmt.Errorf("create author: %w", err)
	}
	return author, nil
}

func (r *CatalogRepository) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	const query = `SELECT id, first_name, last_name FROM authors ORDER BY id`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	authors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Author, error) {
		var a domain.Author
		err := row.Scan(&a.ID, &a.FirstName, &a.LastName)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

func (r *CatalogRepository) GetAuthor(ctx context.Context, authorID int64) (domain.Author, error) {
	const query = `SELECT id, first_name, last_name FROM authors WHERE id = $1`

	var a domain.Author
	err := conn(ctx, r.pool).QueryRow(ctx, query, authorID).Scan(&a.ID, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Author{}, domain.ErrUnknownAuthor
		}
		return domain.Author{}, fmt.Errorf("get author: %w", err)
	}
	return a, nil
}

func (r *CatalogRepository) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	const stmt = `
INSERT INTO books (title, author_id, genre, blurb)
VALUES ($1, $2, $3, $4)
RETURNING id`

	err := conn(ctx, r.pool).QueryRow(ctx, stmt, book.Title, book.AuthorID, string(book.Genre), book.Blurb).Scan(&book.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Book{}, domain.ErrUnknownAuthor
		}
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

func (r *CatalogRepository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	const query = `SELECT id, title, author_id, genre, blurb FROM books ORDER BY id`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *CatalogRepository) ResolveBook(ctx context.Context, bookID int64) (domain.Book, error) {
	const query = `SELECT id, title, author_id, genre, blurb FROM books WHERE id = $1`
	return r.getBook(ctx, query, bookID)
}

func (r *CatalogRepository) FindBookByTitle(ctx context.Context, title string) (domain.Book, error) {
	const query = `SELECT id, title, author_id, genre, blurb FROM books WHERE title = $1 ORDER BY id LIMIT 1`
	return r.getBook(ctx, query, title)
}

func (r *CatalogRepository) getBook(ctx context.Context, query string, arg any) (domain.Book, error) {
	b, err := scanBook(conn(ctx, r.pool).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, domain.ErrUnknownBook
		}
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func scanBook(row pgx.Row) (domain.Book, error) {
	var (
		b     domain.Book
		genre string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.AuthorID, &genre, &b.Blurb); err != nil {
		return domain.Book{}, err
	}
	b.Genre = domain.Genre(genre)
	return b, nil
}

func (r *CatalogRepository) CreateBorrower(ctx context.Context, borrower domain.Borrower) (domain.Borrower, error) {
	const stmt = `
INSERT INTO borrowers (first_name, last_name, email, phone_number)
VALUES ($1, $2, $3, $4)
RETURNING id`

	err := conn(ctx, r.pool).QueryRow(ctx, stmt,
		borrower.FirstName,
		borrower.LastName,
		borrower.Email,
		borrower.PhoneNumber,
	).Scan(&borrower.ID)
	if err != nil {
		return domain.Borrower{}, fmt.Errorf("create borrower: %w", err)
	}
	return borrower, nil
}

func (r *CatalogRepository) GetBorrower(ctx context.Context, borrowerID int64) (domain.Borrower, error) {
	const query = `SELECT id, first_name, last_name, email, phone_number FROM borrowers WHERE id = $1`

	var b domain.Borrower
	err := conn(ctx, r.pool).QueryRow(ctx, query, borrowerID).
		Scan(&b.ID, &b.FirstName, &b.LastName, &b.Email, &b.PhoneNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Borrower{}, domain.ErrUnknownBorrower
		}
		return domain.Borrower{}, fmt.Errorf("get borrower: %w", err)
	}
	return b, nil
}
