// Package server exposes the listing pipeline over a small JSON HTTP API.
package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chenxi-v/otva/internal/client"
	"github.com/chenxi-v/otva/internal/layout"
	"github.com/chenxi-v/otva/internal/models"
)

// SourceResolver resolves a source id to its descriptor.
type SourceResolver func(id string) (models.Source, bool)

// Handler serves listing and layout requests.
type Handler struct {
	client  client.Client
	resolve SourceResolver
}

// NewHandler creates a handler backed by the given listing client and source resolver.
func NewHandler(c client.Client, resolve SourceResolver) *Handler {
	return &Handler{client: c, resolve: resolve}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	h.RegisterRoutes(api)

	return router
}

// RegisterRoutes attaches the API routes to a router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/listing", h.listing) // GET /api/listing?source=s1&t=6&pg=2
	rg.GET("/layout", h.layout)   // GET /api/layout?count=12
}

// listing runs one (source, category, page) request through the pipeline.
// Failures follow the render-nothing contract: the response is still 200 with
// the terminal state and an empty list, never an error payload.
func (h *Handler) listing(c *gin.Context) {
	sourceID := c.Query("source")
	src, ok := h.resolve(sourceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	cat := models.Category{
		TypeID:       parseInt(c.Query("t"), 0),
		TypeParentID: parseInt(c.Query("pid"), 0),
		Name:         c.Query("type_name"),
	}
	page := parseInt(c.Query("pg"), 1)

	result := h.client.FetchListing(c.Request.Context(), src, cat, page)

	if result.State != models.StateSuccess {
		c.JSON(http.StatusOK, gin.H{
			"state":     result.State.String(),
			"key":       client.Key(src, cat, page),
			"page":      page,
			"pagecount": 1,
			"list":      []models.Video{},
			"columns":   layout.SelectColumns(0),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":     result.State.String(),
		"key":       client.Key(src, cat, page),
		"page":      result.Page.Page,
		"pagecount": result.Page.PageCount,
		"list":      result.Page.Records,
		"columns":   layout.SelectColumns(len(result.Page.Records)),
	})
}

// layout exposes the grid selector for a given record count.
func (h *Handler) layout(c *gin.Context) {
	count := parseInt(c.Query("count"), 0)
	columns := layout.SelectColumns(count)

	c.JSON(http.StatusOK, gin.H{
		"count":   count,
		"columns": columns,
		"token":   columns.Token(),
	})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
