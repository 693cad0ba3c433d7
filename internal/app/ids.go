package app

import "github.com/google/uuid"

func newLoanID() string {
	return uuid.NewString()
}

// validLoanID rejects ids no store could have issued.
func validLoanID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
