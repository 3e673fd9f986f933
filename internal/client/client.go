package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chenxi-v/otva/internal/cache"
	"github.com/chenxi-v/otva/internal/config"
	"github.com/chenxi-v/otva/internal/models"
	"github.com/chenxi-v/otva/internal/parser"

	"github.com/failsafe-go/failsafe-go/timeout"
)

// Client fetches and normalizes listings from upstream video API sources.
//
// Results are only meaningful in the context of their triggering
// (source, category, page) key. Callers that issue overlapping requests must
// discard results whose key no longer matches the latest requested key
// (last-request-wins by key, not by completion order); superseded fetches are
// not cancelled internally.
type Client interface {
	// FetchListing runs the full pipeline for one (source, category, page)
	// request. It never returns an error for upstream problems: failures
	// degrade to a terminal Empty or Failed state on the result.
	FetchListing(ctx context.Context, src models.Source, cat models.Category, page int) *models.ListingResult

	// StreamCategory streams canonical records across every page of a
	// category as they become available. The channel is closed when all pages
	// have been processed. Errors are sent as StreamResult with a non-nil Err.
	StreamCategory(ctx context.Context, src models.Source, cat models.Category) <-chan models.StreamResult[models.Video]

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// PageStore is the injected per-category pagination side table. The client
// writes the discovered total page count there on every successful fetch that
// declared one; the current page number itself stays caller-owned.
type PageStore interface {
	SetTotalPages(typeID, pages int)
}

// Option customizes a Client created by NewClient.
type Option func(*client)

// WithPageStore wires the per-category total-pages side table.
func WithPageStore(ps PageStore) Option {
	return func(c *client) {
		c.pages = ps
	}
}

// Key builds the canonical request key for one (source, category, page)
// request. It doubles as the listing cache key; note the page number is part
// of the key, so every page of a category caches independently.
func Key(src models.Source, cat models.Category, page int) string {
	return fmt.Sprintf("%s|%d|%d", src.ID, cat.TypeID, page)
}

// client implements the Client interface
type client struct {
	httpClient   *http.Client
	pageSize     int
	xmlParser    *parser.XMLParser
	jsonParser   *parser.JSONParser
	listingCache cache.Cache
	fetchTimeout timeout.Timeout[*upstreamResponse]
	pages        PageStore
}

// cacheLogger adapts the zerolog global logger to the cache.Logger interface.
type cacheLogger struct{}

func (cacheLogger) Error(msg string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Msg(msg)
}

// NewClient creates a new client instance with proxy configuration if provided
func NewClient(cfg *config.Config, opts ...Option) Client {
	logger := config.GetLogger()

	// Parse timeout duration
	clientTimeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			clientTimeout = parsedTimeout
		}
	}

	// Set up base transport with optional proxy.
	// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			// Log error but continue without proxy
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	httpClient := &http.Client{
		Transport: newCompressionTransport(baseTransport),
	}

	c := &client{
		httpClient:   httpClient,
		pageSize:     cfg.PageSize,
		xmlParser:    parser.NewXMLParser(),
		jsonParser:   parser.NewJSONParser(),
		fetchTimeout: timeout.With[*upstreamResponse](clientTimeout),
	}

	c.listingCache = newListingCache(cfg)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// newListingCache builds the listing response cache from config. A broken
// cache configuration degrades to no caching rather than failing the client.
func newListingCache(cfg *config.Config) cache.Cache {
	logger := config.GetLogger()

	ttl := 5 * time.Minute
	if cfg.Cache.TTL != "" {
		if parsed, err := time.ParseDuration(cfg.Cache.TTL); err == nil {
			ttl = parsed
		} else {
			logger.Warn().Err(err).Str("ttl", cfg.Cache.TTL).Msg("Invalid cache TTL, using default 5m")
		}
	}

	provider := cfg.Cache.Provider
	if provider == "" {
		provider = "memory"
	}

	listingCache, err := cache.New(provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           ttl,
		Logger:        cacheLogger{},
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "listing",
	})
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Msg("Listing cache unavailable, continuing without caching")
		return nil
	}
	return listingCache
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	if c.listingCache == nil {
		return nil
	}
	return c.listingCache.Close()
}
