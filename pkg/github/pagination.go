package github

// DefaultPageSize is the page size used for every listing
const DefaultPageSize = 30

// Page is the result of a single fetch call
type Page[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}

// NewPage builds a Page and infers HasMore from the item count.
//
// HasMore is a heuristic: a full page means "probably more". When the total
// number of items is an exact multiple of perPage the last full page reports
// HasMore and the following fetch returns an empty page, which callers treat
// as the end of the listing.
func NewPage[T any](items []T, perPage int) Page[T] {
	return Page[T]{
		Items:   items,
		HasMore: HasMore(len(items), perPage),
	}
}

// HasMore reports whether a page with count items out of perPage requested
// is likely to be followed by another page
func HasMore(count, perPage int) bool {
	return count > 0 && count == perPage
}

// Last returns the last item of the page and false if the page is empty
func (p Page[T]) Last() (T, bool) {
	var zero T
	if len(p.Items) == 0 {
		return zero, false
	}
	return p.Items[len(p.Items)-1], true
}
