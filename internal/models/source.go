package models

// Source identifies one upstream video catalog provider.
type Source struct {
	// ID is the stable unique key of the source.
	ID string `json:"id"`
	// Name is the display name of the source.
	Name string `json:"name"`
	// URL is the base endpoint queried for listings.
	URL string `json:"url"`
}

// Category is a content grouping assigned by the upstream provider.
// It is supplied by the caller per request and never owned by the pipeline.
type Category struct {
	TypeID       int    `json:"type_id"`
	TypeParentID int    `json:"type_pid"`
	Name         string `json:"type_name"`
}
