package app

import (
	"context"
	"strings"

	"github.com/nadupoy/library-lending/internal/domain"
)

type CatalogRepository interface {
	CreateAuthor(ctx context.Context, author domain.Author) (domain.Author, error)
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	GetAuthor(ctx context.Context, authorID int64) (domain.Author, error)
	CreateBook(ctx context.Context, book domain.Book) (domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	ResolveBook(ctx context.Context, bookID int64) (domain.Book, error)
	FindBookByTitle(ctx context.Context, title string) (domain.Book, error)
	CreateBorrower(ctx context.Context, borrower domain.Borrower) (domain.Borrower, error)
	GetBorrower(ctx context.Context, borrowerID int64) (domain.Borrower, error)
}

// CatalogService registers and looks up authors, books and borrowers.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type CreateAuthorInput struct {
	FirstName string `validate:"max=50,required_without=LastName"`
	LastName  string `validate:"max=50"`
}

func (s *CatalogService) CreateAuthor(ctx context.Context, in CreateAuthorInput) (domain.Author, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateInput(in); err != nil {
		return domain.Author{}, err
	}

	return s.repo.CreateAuthor(ctx, domain.Author{
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
}

func (s *CatalogService) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	return s.repo.ListAuthors(ctx)
}

type CreateBookInput struct {
	Title    string `validate:"required,max=100"`
	AuthorID int64  `validate:"gt=0"`
	Genre    domain.Genre
	Blurb    string
}

func (s *CatalogService) CreateBook(ctx context.Context, in CreateBookInput) (domain.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Genre = domain.Genre(strings.ToUpper(strings.TrimSpace(string(in.Genre))))
	if err := validateInput(in); err != nil {
		return domain.Book{}, err
	}
	if !in.Genre.Valid() {
		return domain.Book{}, domain.ErrInvalidGenre
	}
	if _, err := s.repo.GetAuthor(ctx, in.AuthorID); err != nil {
		return domain.Book{}, err
	}

	return s.repo.CreateBook(ctx, domain.Book{
		Title:    in.Title,
		AuthorID: in.AuthorID,
		Genre:    in.Genre,
		Blurb:    in.Blurb,
	})
}

// BookEntry is a book together with its resolved author.
type BookEntry struct {
	Book   domain.Book
	Author domain.Author
}

// ListBooks returns the whole catalog with authors resolved.
func (s *CatalogService) ListBooks(ctx context.Context) ([]BookEntry, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	entries := make([]BookEntry, 0, len(books))
	for _, b := range books {
		entries = append(entries, BookEntry{Book: b, Author: byID[b.AuthorID]})
	}
	return entries, nil
}

func (s *CatalogService) GetBook(ctx context.Context, bookID int64) (BookEntry, error) {
	book, err := s.repo.ResolveBook(ctx, bookID)
	if err != nil {
		return BookEntry{}, err
	}
	return s.withAuthor(ctx, book)
}

// BookByTitle finds a book by its exact title.
func (s *CatalogService) BookByTitle(ctx context.Context, title string) (BookEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return BookEntry{}, domain.ErrUnknownBook
	}
	book, err := s.repo.FindBookByTitle(ctx, title)
	if err != nil {
		return BookEntry{}, err
	}
	return s.withAuthor(ctx, book)
}

func (s *CatalogService) withAuthor(ctx context.Context, book domain.Book) (BookEntry, error) {
	author, err := s.repo.GetAuthor(ctx, book.AuthorID)
	if err != nil {
		return BookEntry{}, err
	}
	return BookEntry{Book: book, Author: author}, nil
}

type CreateBorrowerInput struct {
	FirstName   string `validate:"required,max=50"`
	LastName    string `validate:"required,max=50"`
	Email       string `validate:"required,email,max=254"`
	PhoneNumber string `validate:"omitempty,numeric,max=20"`
}

func (s *CatalogService) CreateBorrower(ctx context.Context, in CreateBorrowerInput) (domain.Borrower, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := validateInput(in); err != nil {
		return domain.Borrower{}, err
	}

	return s.repo.CreateBorrower(ctx, domain.Borrower{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	})
}

func (s *CatalogService) GetBorrower(ctx context.Context, borrowerID int64) (domain.Borrower, error) {
	return s.repo.GetBorrower(ctx, borrowerID)
}
