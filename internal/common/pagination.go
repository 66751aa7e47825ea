package common

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is a normalized pagination request
type Page struct {
	Number  int
	PerPage int
}

// NewPage clamps page and per-page to sane values
func NewPage(number, perPage int) Page {
	if number < 1 {
		number = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return Page{Number: number, PerPage: perPage}
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}
