// Package normalizer turns a parsed intermediate listing into the canonical
// ListingPage for one (source, category, page) request. It is format-agnostic:
// by the time it runs, the caller has already resolved which parser handled
// the response.
package normalizer

import (
	"github.com/chenxi-v/otva/internal/models"
)

// Normalize stamps every record with the identity of the source that produced
// the request and validates the pagination metadata. The stamp always
// overwrites whatever the upstream payload carried under the same names;
// upstream never legitimately supplies source identity.
func Normalize(listing *models.Listing, src models.Source) *models.ListingPage {
	page := &models.ListingPage{
		Records:   make([]models.Video, len(listing.Records)),
		Page:      listing.Page,
		PageCount: listing.PageCount,
	}

	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageCount < 1 {
		page.PageCount = 1
	}

	for i, record := range listing.Records {
		record.SourceID = src.ID
		record.SourceName = src.Name
		record.SourceURL = src.URL
		page.Records[i] = record
	}

	return page
}
