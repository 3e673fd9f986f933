package parser

import (
	"io"

	"github.com/chenxi-v/otva/internal/models"
)

// ListingParser converts one upstream response body into the canonical
// intermediate listing shape
type ListingParser interface {
	Parse(body io.Reader) (*models.Listing, error)
}
