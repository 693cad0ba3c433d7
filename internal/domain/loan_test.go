package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoan_StatusAt(t *testing.T) {
	t.Parallel()

	borrowed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := borrowed.AddDate(0, 0, 14)
	returned := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	open := Loan{BorrowDate: borrowed, DueDate: due, Status: LoanStatusOpen}
	closed := Loan{BorrowDate: borrowed, DueDate: due, Status: LoanStatusReturned, ReturnDate: &returned}

	tests := []struct {
		name  string
		loan  Loan
		today time.Time
		want  LoanStatus
	}{
		{name: "open before due", loan: open, today: borrowed, want: LoanStatusOpen},
		{name: "open on due date", loan: open, today: due, want: LoanStatusOpen},
		{name: "open late on due date", loan: open, today: due.Add(23 * time.Hour), want: LoanStatusOpen},
		{name: "overdue day after due", loan: open, today: due.AddDate(0, 0, 1), want: LoanStatusOverdue},
		{name: "returned stays returned", loan: closed, today: due.AddDate(0, 1, 0), want: LoanStatusReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.loan.StatusAt(tt.today))
		})
	}
}

func TestDateOf_TruncatesToUTCMidnight(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2024, 1, 2, 1, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DateOf(in))
}

func TestFullName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ursula Le Guin", Author{FirstName: "Ursula", LastName: "Le Guin"}.FullName())
	assert.Equal(t, "Homer", Author{FirstName: "Homer"}.FullName())
	assert.Equal(t, "Ada Lovelace", Borrower{FirstName: " Ada ", LastName: "Lovelace"}.FullName())
}

func TestGenre(t *testing.T) {
	t.Parallel()

	assert.True(t, GenreSciFi.Valid())
	assert.Equal(t, "Sci-Fi", GenreSciFi.Label())
	assert.False(t, Genre("POETRY").Valid())
	assert.Equal(t, "POETRY", Genre("POETRY").Label())
}
