package model

// Page is one page of a paginated listing. Endpoints that return bare arrays
// are normalized into a single page with Count equal to len(Results).
type Page[T any] struct {
	Results  []T
	Count    int
	Next     string
	Previous string
	Number   int
}

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Next != "" }

// HasPrevious reports whether a preceding page exists.
func (p Page[T]) HasPrevious() bool { return p.Previous != "" }
