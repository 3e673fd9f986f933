package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/chenxi-v/otva/internal/config"
	"github.com/chenxi-v/otva/internal/models"
)

// pageBatchSize controls how many listing pages are fetched in parallel at once.
const pageBatchSize = 4

// StreamCategory streams canonical records for every page of a category.
// Page 1 is fetched first to discover the total page count, then the
// remaining pages are fetched in parallel batches of pageBatchSize. Records
// are deduplicated by (source, vod id) on the fly; duplicates across pages
// happen when upstream shifts entries between pages mid-walk.
func (c *client) StreamCategory(ctx context.Context, src models.Source, cat models.Category) <-chan models.StreamResult[models.Video] {
	ch := make(chan models.StreamResult[models.Video])

	go func() {
		defer close(ch)
		logger := config.GetLogger()

		first := c.FetchListing(ctx, src, cat, 1)
		if first.State != models.StateSuccess {
			select {
			case ch <- models.StreamResult[models.Video]{Err: fmt.Errorf("category %d listing from source %s unavailable (%s)", cat.TypeID, src.ID, first.State)}:
			case <-ctx.Done():
			}
			return
		}

		var seen sync.Map

		emit := func(page *models.ListingPage) bool {
			for _, v := range page.Records {
				if _, dup := seen.LoadOrStore(v.SourceID+"|"+v.VodID, struct{}{}); dup {
					continue
				}
				select {
				case ch <- models.StreamResult[models.Video]{Value: v}:
				case <-ctx.Done():
					return false
				}
			}
			return true
		}

		if !emit(first.Page) {
			return
		}

		totalPages := first.Page.PageCount
		if totalPages <= 1 {
			logger.Debug().Str("source", src.ID).Int("type", cat.TypeID).Msg("Single page category, done")
			return
		}

		logger.Info().
			Str("source", src.ID).
			Int("type", cat.TypeID).
			Int("totalPages", totalPages).
			Msg("Paginated category, fetching remaining pages in parallel")

		for batchStart := 2; batchStart <= totalPages; batchStart += pageBatchSize {
			batchEnd := batchStart + pageBatchSize - 1
			if batchEnd > totalPages {
				batchEnd = totalPages
			}

			var batchWg sync.WaitGroup
			batchWg.Add(batchEnd - batchStart + 1)

			for page := batchStart; page <= batchEnd; page++ {
				go func() {
					defer batchWg.Done()

					result := c.FetchListing(ctx, src, cat, page)
					if result.State != models.StateSuccess {
						logger.Warn().
							Str("source", src.ID).
							Int("type", cat.TypeID).
							Int("page", page).
							Str("state", result.State.String()).
							Msg("Skipping page without usable listing")
						return
					}
					emit(result.Page)
				}()
			}

			batchWg.Wait()

			// Check if context was cancelled between batches
			if ctx.Err() != nil {
				return
			}
		}

		logger.Debug().Str("source", src.ID).Int("type", cat.TypeID).Int("totalPages", totalPages).Msg("Completed streaming category")
	}()

	return ch
}
