package domain

// Borrower is a library member who can take books out on loan.
type Borrower struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

func (b Borrower) FullName() string {
	return fullName(b.FirstName, b.LastName)
}
