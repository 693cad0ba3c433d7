package domain

import "strings"

// Author wrote one or more books in the catalog.
type Author struct {
	ID        int64
	FirstName string
	LastName  string
}

// FullName joins the non-empty name parts.
func (a Author) FullName() string {
	return fullName(a.FirstName, a.LastName)
}

func fullName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
