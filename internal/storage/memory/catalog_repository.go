package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nadupoy/library-lending/internal/domain"
)

type CatalogRepository struct {
	mu        sync.RWMutex
	nextID    int64
	authors   map[int64]domain.Author
	books     map[int64]domain.Book
	borrowers map[int64]domain.Borrower
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		authors:   make(map[int64]domain.Author),
		books:     make(map[int64]domain.Book),
		borrowers: make(map[int64]domain.Borrower),
	}
}

func (r *CatalogRepository) CreateAuthor(_ context.Context, author domain.Author) (domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	author.ID = r.newID()
	r.authors[author.ID] = author
	return author, nil
}

func (r *CatalogRepository) ListAuthors(context.Context) ([]domain.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Author, 0, len(r.authors))
	for _, a := range r.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogRepository) GetAuthor(_ context.Context, authorID int64) (domain.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.authors[authorID]
	if !ok {
		return domain.Author{}, domain.ErrUnknownAuthor
	}
	return a, nil
}

func (r *CatalogRepository) CreateBook(_ context.Context, book domain.Book) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[book.AuthorID]; !ok {
		return domain.Book{}, domain.ErrUnknownAuthor
	}
	book.ID = r.newID()
	r.books[book.ID] = book
	return book, nil
}

func (r *CatalogRepository) ListBooks(context.Context) ([]domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogRepository) ResolveBook(_ context.Context, bookID int64) (domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[bookID]
	if !ok {
		return domain.Book{}, domain.ErrUnknownBook
	}
	return b, nil
}

// FindBookByTitle returns the lowest-id book with the exact title.
func (r *CatalogRepository) FindBookByTitle(ctx context.Context, title string) (domain.Book, error) {
	books, _ := r.ListBooks(ctx)
	for _, b := range books {
		if b.Title == title {
			return b, nil
		}
	}
	return domain.Book{}, domain.ErrUnknownBook
}

func (r *CatalogRepository) CreateBorrower(_ context.Context, borrower domain.Borrower) (domain.Borrower, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	borrower.ID = r.newID()
	r.borrowers[borrower.ID] = borrower
	return borrower, nil
}

func (r *CatalogRepository) GetBorrower(_ context.Context, borrowerID int64) (domain.Borrower, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.borrowers[borrowerID]
	if !ok {
		return domain.Borrower{}, domain.ErrUnknownBorrower
	}
	return b, nil
}

// AddBook stores a book under a caller-chosen id, bypassing author checks.
func (r *CatalogRepository) AddBook(book domain.Book) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[book.ID] = book
	if book.ID > r.nextID {
		r.nextID = book.ID
	}
}

func (r *CatalogRepository) newID() int64 {
	r.nextID++
	return r.nextID
}
