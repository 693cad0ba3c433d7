package http

import (
	"time"

	"github.com/nadupoy/library-lending/internal/app"
	"github.com/nadupoy/library-lending/internal/domain"
)

type loanResponse struct {
	ID         string  `json:"id"`
	BookID     int64   `json:"book_id"`
	BorrowerID int64   `json:"borrower_id"`
	BorrowDate string  `json:"borrow_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date"`
	Status     string  `json:"status"`
}

// toLoanResponse renders the loan with its effective status on today.
func toLoanResponse(l domain.Loan, today time.Time) loanResponse {
	resp := loanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		BorrowerID: l.BorrowerID,
		BorrowDate: l.BorrowDate.Format(domain.DateLayout),
		DueDate:    l.DueDate.Format(domain.DateLayout),
		Status:     string(l.StatusAt(today)),
	}
	if l.ReturnDate != nil {
		s := l.ReturnDate.Format(domain.DateLayout)
		resp.ReturnDate = &s
	}
	return resp
}

func toLoanResponses(loans []domain.Loan, today time.Time) []loanResponse {
	resp := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, toLoanResponse(l, today))
	}
	return resp
}

type authorResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func toAuthorResponse(a domain.Author) authorResponse {
	return authorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
	}
}

type bookResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	AuthorID   int64  `json:"author_id"`
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	GenreLabel string `json:"genre_label"`
	Blurb      string `json:"blurb"`
	Available  *bool  `json:"available,omitempty"`
}

func toBookResponse(e app.BookEntry) bookResponse {
	return bookResponse{
		ID:         e.Book.ID,
		Title:      e.Book.Title,
		AuthorID:   e.Book.AuthorID,
		Author:     e.Author.FullName(),
		Genre:      string(e.Book.Genre),
		GenreLabel: e.Book.Genre.Label(),
		Blurb:      e.Book.Blurb,
	}
}

type borrowerResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func toBorrowerResponse(b domain.Borrower) borrowerResponse {
	return borrowerResponse{
		ID:          b.ID,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		FullName:    b.FullName(),
		Email:       b.Email,
		PhoneNumber: b.PhoneNumber,
	}
}
