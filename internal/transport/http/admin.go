package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nadupoy/library-lending/internal/app"
	"github.com/nadupoy/library-lending/internal/domain"
)

// AdminAuthorService is the minimal interface needed for admin author endpoints.
type AdminAuthorService interface {
	CreateAuthor(ctx context.Context, in app.CreateAuthorInput) (domain.Author, error)
	ListAuthors(ctx context.Context) ([]domain.Author, error)
}

// AdminBookService is the minimal interface needed for admin book endpoints.
type AdminBookService interface {
	CreateBook(ctx context.Context, in app.CreateBookInput) (domain.Book, error)
	GetBook(ctx context.Context, bookID int64) (app.BookEntry, error)
	ListBooks(ctx context.Context) ([]app.BookEntry, error)
}

// AdminBorrowerService is the minimal interface needed for admin borrower endpoints.
type AdminBorrowerService interface {
	CreateBorrower(ctx context.Context, in app.CreateBorrowerInput) (domain.Borrower, error)
	GetBorrower(ctx context.Context, borrowerID int64) (domain.Borrower, error)
}

type createAuthorRequest struct {
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
}

// HandleAdminAuthors returns an HTTP handler for admin author creation/listing.
func HandleAdminAuthors(svc AdminAuthorService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			authors, err := svc.ListAuthors(r.Context())
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}
			resp := make([]authorResponse, 0, len(authors))
			for _, a := range authors {
				resp = append(resp, toAuthorResponse(a))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createAuthorRequest
			if !decodeBody(w, r, &req) {
				return
			}
			author, err := svc.CreateAuthor(r.Context(), app.CreateAuthorInput{
				FirstName: req.FirstName,
				LastName:  req.LastName,
			})
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, toAuthorResponse(author))
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	}
}

type createBookRequest struct {
	Title    string `json:"title" validate:"required,max=100"`
	AuthorID int64  `json:"author_id" validate:"required,gt=0"`
	Genre    string `json:"genre" validate:"required"`
	Blurb    string `json:"blurb"`
}

// HandleAdminBooks returns an HTTP handler for admin book creation/listing.
func HandleAdminBooks(svc AdminBookService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			entries, err := svc.ListBooks(r.Context())
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}
			resp := make([]bookResponse, 0, len(entries))
			for _, e := range entries {
				resp = append(resp, toBookResponse(e))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createBookRequest
			if !decodeBody(w, r, &req) {
				return
			}
			book, err := svc.CreateBook(r.Context(), app.CreateBookInput{
				Title:    req.Title,
				AuthorID: req.AuthorID,
				Genre:    domain.Genre(req.Genre),
				Blurb:    req.Blurb,
			})
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}
			entry, err := svc.GetBook(r.Context(), book.ID)
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, toBookResponse(entry))
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	}
}

type createBorrowerRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,numeric,max=20"`
}

// HandleAdminBorrowers returns an HTTP handler for admin borrower registration.
func HandleAdminBorrowers(svc AdminBorrowerService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}

		var req createBorrowerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		borrower, err := svc.CreateBorrower(r.Context(), app.CreateBorrowerInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBorrowerResponse(borrower))
	}
}

// HandleAdminBorrower returns an HTTP handler for GET /admin/borrowers/{id}.
func HandleAdminBorrower(svc AdminBorrowerService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}

		borrowerID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		borrower, err := svc.GetBorrower(r.Context(), borrowerID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toBorrowerResponse(borrower))
	}
}
