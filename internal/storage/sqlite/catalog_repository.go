package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/nadupoy/library-lending/internal/domain"
)

type authorRow struct {
	ID        int64  `db:"id" goqu:"skipinsert"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

func (r authorRow) toDomain() domain.Author {
	return domain.Author{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName}
}

type bookRow struct {
	ID       int64  `db:"id" goqu:"skipinsert"`
	Title    string `db:"title"`
	AuthorID int64  `db:"author_id"`
	Genre    string `db:"genre"`
	Blurb    string `db:"blurb"`
}

func (r bookRow) toDomain() domain.Book {
	return domain.Book{
		ID:       r.ID,
		Title:    r.Title,
		AuthorID: r.AuthorID,
		Genre:    domain.Genre(r.Genre),
		Blurb:    r.Blurb,
	}
}

type borrowerRow struct {
	ID          int64  `db:"id" goqu:"skipinsert"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Email       string `db:"email"`
	PhoneNumber string `db:"phone_number"`
}

func (r borrowerRow) toDomain() domain.Borrower {
	return domain.Borrower{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

type CatalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateAuthor(ctx context.Context, author domain.Author) (domain.Author, error) {
	ds := dialect.Insert("authors").Rows(authorRow{
		FirstName: author.FirstName,
		LastName:  author.LastName,
	}).Prepared(true)

	_, id, err := r.db.exec(ctx, ds)
	if err != nil {
		return domain.Author{}, fmt.Errorf("create author: %w", err)
	}
	author.ID = id
	return author, nil
}

func (r *CatalogRepository) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	var rows []authorRow
	ds := dialect.From("authors").Select(&authorRow{}).Order(goqu.C("id").Asc()).Prepared(true)
	if err := r.db.selectAll(ctx, &rows, ds); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	authors := make([]domain.Author, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, row.toDomain())
	}
	return authors, nil
}

func (r *CatalogRepository) GetAuthor(ctx context.Context, authorID int64) (domain.Author, error) {
	var row authorRow
	ds := dialect.From("authors").Select(&authorRow{}).Where(goqu.C("id").Eq(authorID)).Prepared(true)
	if err := r.db.get(ctx, &row, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Author{}, domain.ErrUnknownAuthor
		}
		return domain.Author{}, fmt.Errorf("get author: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CatalogRepository) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	ds := dialect.Insert("books").Rows(bookRow{
		Title:    book.Title,
		AuthorID: book.AuthorID,
		Genre:    string(book.Genre),
		Blurb:    book.Blurb,
	}).Prepared(true)

	_, id, err := r.db.exec(ctx, ds)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Book{}, domain.ErrUnknownAuthor
		}
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	book.ID = id
	return book, nil
}

func (r *CatalogRepository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var rows []bookRow
	if err := r.db.selectAll(ctx, &rows, r.selectBooks().Order(goqu.C("id").Asc())); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books := make([]domain.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toDomain())
	}
	return books, nil
}

func (r *CatalogRepository) ResolveBook(ctx context.Context, bookID int64) (domain.Book, error) {
	return r.getBook(ctx, r.selectBooks().Where(goqu.C("id").Eq(bookID)))
}

func (r *CatalogRepository) FindBookByTitle(ctx context.Context, title string) (domain.Book, error) {
	return r.getBook(ctx, r.selectBooks().
		Where(goqu.C("title").Eq(title)).
		Order(goqu.C("id").Asc()).
		Limit(1))
}

func (r *CatalogRepository) selectBooks() *goqu.SelectDataset {
	return dialect.From("books").Select(&bookRow{}).Prepared(true)
}

func (r *CatalogRepository) getBook(ctx context.Context, ds *goqu.SelectDataset) (domain.Book, error) {
	var row bookRow
	if err := r.db.get(ctx, &row, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Book{}, domain.ErrUnknownBook
		}
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CatalogRepository) CreateBorrower(ctx context.Context, borrower domain.Borrower) (domain.Borrower, error) {
	ds := dialect.Insert("borrowers").Rows(borrowerRow{
		FirstName:   borrower.FirstName,
		LastName:    borrower.LastName,
		Email:       borrower.Email,
		PhoneNumber: borrower.PhoneNumber,
	}).Prepared(true)

	_, id, err := r.db.exec(ctx, ds)
	if err != nil {
		return domain.Borrower{}, fmt.Errorf("create borrower: %w", err)
	}
	borrower.ID = id
	return borrower, nil
}

func (r *CatalogRepository) GetBorrower(ctx context.Context, borrowerID int64) (domain.Borrower, error) {
	var row borrowerRow
	ds := dialect.From("borrowers").Select(&borrowerRow{}).Where(goqu.C("id").Eq(borrowerID)).Prepared(true)
	if err := r.db.get(ctx, &row, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Borrower{}, domain.ErrUnknownBorrower
		}
		return domain.Borrower{}, fmt.Errorf("get borrower: %w", err)
	}
	return row.toDomain(), nil
}
