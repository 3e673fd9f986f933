package models

// Listing is the canonical intermediate shape produced by the format parsers,
// before source identity has been stamped on the records.
type Listing struct {
	Records   []Video
	Page      int
	PageCount int

	// PageCountDeclared reports whether the payload actually carried a numeric
	// pagecount, as opposed to PageCount holding its default of 1. Callers use
	// it to decide whether to update their per-category total-pages state.
	PageCountDeclared bool

	// HasList reports whether the payload carried a usable record sequence at
	// all. A well-formed payload with zero records sets it; a payload whose
	// list has the wrong shape does not.
	HasList bool
}

// ListingPage is one normalized, paginated result set for a
// (source, category, page) request. It is constructed fresh per request and
// never mutated afterwards.
type ListingPage struct {
	Records   []Video `json:"list"`
	Page      int     `json:"page"`
	PageCount int     `json:"pagecount"`
}
