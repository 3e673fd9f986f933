package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chenxi-v/otva/internal/apperrors"
	"github.com/chenxi-v/otva/internal/config"
	"github.com/chenxi-v/otva/internal/format"
	"github.com/chenxi-v/otva/internal/metrics"
	"github.com/chenxi-v/otva/internal/models"
	"github.com/chenxi-v/otva/internal/normalizer"
	"github.com/chenxi-v/otva/internal/parser"

	"github.com/failsafe-go/failsafe-go"
	"github.com/getsentry/sentry-go"
)

// BuildListingURL constructs the upstream query for one listing page. The
// shape is identical for JSON and XML sources; only the base URL differs.
func BuildListingURL(baseURL string, typeID, page, pageSize int) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sac=videolist&t=%d&pg=%d&pagesize=%d", baseURL, sep, typeID, page, pageSize)
}

// upstreamResponse is one fetched upstream payload plus the content-type hint
// needed for the authoritative format check. It is also the unit stored in
// the listing cache.
type upstreamResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// FetchListing runs detect → fetch → parse → normalize for one
// (source, category, page) request and reduces every failure mode to a
// terminal state. The worst case for the caller is an Empty or Failed result
// with no page; no error from the pipeline ever escapes.
func (c *client) FetchListing(ctx context.Context, src models.Source, cat models.Category, page int) *models.ListingResult {
	logger := config.GetLogger()

	if page < 1 {
		page = 1
	}

	hint := format.DetectFromURL(src.URL)
	target := BuildListingURL(src.URL, cat.TypeID, page, c.pageSize)

	logger.Debug().
		Str("source", src.ID).
		Int("type", cat.TypeID).
		Int("page", page).
		Str("format_hint", hint.String()).
		Msg("Fetching listing")

	resp, err := c.fetchCached(ctx, Key(src, cat, page), target)
	if err != nil {
		var netErr *apperrors.NetworkError
		if errors.As(err, &netErr) && netErr.Status != 0 {
			// Upstream answered with a non-success status: no data, no retry.
			logger.Warn().Str("source", src.ID).Int("status", netErr.Status).Msg("Upstream returned non-success status")
			metrics.ListingFetchesTotal.WithLabelValues(hint.String(), models.StateEmpty.String()).Inc()
			return &models.ListingResult{State: models.StateEmpty}
		}

		logger.Warn().Err(err).Str("source", src.ID).Str("url", target).Msg("Upstream fetch failed")
		sentry.CaptureException(err)
		metrics.ListingFetchesTotal.WithLabelValues(hint.String(), models.StateFailed.String()).Inc()
		return &models.ListingResult{State: models.StateFailed}
	}

	// Authoritative format check: the response wins over the URL hint,
	// because upstream servers mislabel content types and hints can be wrong.
	actual := format.DetectFromResponse(resp.ContentType, resp.Body)
	if actual != hint {
		logger.Debug().
			Str("source", src.ID).
			Str("hint", hint.String()).
			Str("actual", actual.String()).
			Msg("Format hint corrected by response")
	}

	var listingParser parser.ListingParser = c.jsonParser
	if actual == format.XML {
		listingParser = c.xmlParser
	}

	listing, err := listingParser.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		logger.Warn().Err(err).Str("source", src.ID).Int("type", cat.TypeID).Msg("Listing payload malformed")
		sentry.CaptureException(err)
		metrics.ListingParseFailuresTotal.WithLabelValues(actual.String()).Inc()
		metrics.ListingFetchesTotal.WithLabelValues(actual.String(), models.StateFailed.String()).Inc()
		return &models.ListingResult{State: models.StateFailed}
	}

	if !listing.HasList {
		logger.Debug().Str("source", src.ID).Int("type", cat.TypeID).Msg("Listing payload carried no usable record list")
		metrics.ListingFetchesTotal.WithLabelValues(actual.String(), models.StateEmpty.String()).Inc()
		return &models.ListingResult{State: models.StateEmpty}
	}

	normalized := normalizer.Normalize(listing, src)

	if c.pages != nil && listing.PageCountDeclared {
		c.pages.SetTotalPages(cat.TypeID, normalized.PageCount)
	}

	logger.Info().
		Str("source", src.ID).
		Int("type", cat.TypeID).
		Int("page", normalized.Page).
		Int("pagecount", normalized.PageCount).
		Int("records", len(normalized.Records)).
		Str("format", actual.String()).
		Msg("Listing fetched")

	metrics.ListingFetchesTotal.WithLabelValues(actual.String(), models.StateSuccess.String()).Inc()
	metrics.ListingRecords.Observe(float64(len(normalized.Records)))

	return &models.ListingResult{State: models.StateSuccess, Page: normalized}
}

// fetchCached returns the upstream response for target, serving repeats from
// the listing cache. Only successful responses are cached; failures always go
// back upstream.
func (c *client) fetchCached(ctx context.Context, key, target string) (*upstreamResponse, error) {
	if c.listingCache != nil {
		if raw, ok := c.listingCache.Get(key); ok {
			var cached upstreamResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			// Undecodable cache entry: fall through to a fresh fetch.
		}
	}

	resp, err := c.fetchUpstream(ctx, target)
	if err != nil {
		return nil, err
	}

	if c.listingCache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			c.listingCache.Set(key, raw)
		}
	}

	return resp, nil
}

// fetchUpstream performs the HTTP GET under the client's timeout policy.
func (c *client) fetchUpstream(ctx context.Context, target string) (*upstreamResponse, error) {
	executor := failsafe.NewExecutor[*upstreamResponse](c.fetchTimeout).WithContext(ctx)

	return executor.Get(func() (*upstreamResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, apperrors.NewNetworkError(target, err)
		}
		req.Header.Set("User-Agent", config.GetUserAgent())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, apperrors.NewNetworkError(target, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, apperrors.NewStatusError(target, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, apperrors.NewNetworkError(target, err)
		}

		return &upstreamResponse{
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}, nil
	})
}
