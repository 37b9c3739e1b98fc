package domain

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int64
}

// TotalPages returns the number of pages needed to hold Total items.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// IsLast reports whether no page follows this one.
func (p Page[T]) IsLast() bool {
	return p.Number+1 >= p.TotalPages()
}
