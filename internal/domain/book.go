package domain

type Genre string

const (
	GenreCrime   Genre = "CRIME"
	GenreFantasy Genre = "FANTASY"
	GenreMystery Genre = "MYSTERY"
	GenreRomance Genre = "ROMANCE"
	GenreSciFi   Genre = "SCI-FI"
)

var genreLabels = map[Genre]string{
	GenreCrime:   "Crime",
	GenreFantasy: "Fantasy",
	GenreMystery: "Mystery",
	GenreRomance: "Romance",
	GenreSciFi:   "Sci-Fi",
}

// Valid reports whether g is one of the catalog genres.
func (g Genre) Valid() bool {
	_, ok := genreLabels[g]
	return ok
}

// Label returns the display name of the genre, or the raw value if unknown.
func (g Genre) Label() string {
	if label, ok := genreLabels[g]; ok {
		return label
	}
	return string(g)
}

// Book is a catalog entry. AuthorID is a weak reference into the author table.
type Book struct {
	ID       int64
	Title    string
	AuthorID int64
	Genre    Genre
	Blurb    string
}
