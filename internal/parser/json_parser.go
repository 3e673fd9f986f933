package parser

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/chenxi-v/otva/internal/config"
	"github.com/chenxi-v/otva/internal/models"
)

// JSONParser parses the JSON listing dialect:
//
//	{ "list": [ {"vod_id": .., "vod_name": .., ...} ], "page": P, "pagecount": C }
//
// Field names inside list elements already match the canonical record for
// JSON-format sources, so elements pass through without renaming. This parser
// is deliberately permissive: vendors wrap their envelopes inconsistently, so
// a payload whose "list" is not an array yields zero records with page and
// pagecount of 1 instead of an error.
type JSONParser struct{}

// NewJSONParser creates a new JSON listing parser instance
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse decodes the listing envelope. It never returns an error for shape
// problems; the worst case is an empty listing.
func (p *JSONParser) Parse(body io.Reader) (*models.Listing, error) {
	listing := &models.Listing{Page: 1, PageCount: 1}

	var envelope struct {
		List      json.RawMessage `json:"list"`
		Page      json.RawMessage `json:"page"`
		PageCount json.RawMessage `json:"pagecount"`
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		// Undecodable payload degrades to an empty listing, same as a
		// missing list array. Not an error by policy.
		logger := config.GetLogger()
		logger.Debug().Err(err).Msg("JSON listing envelope did not decode, returning empty listing")
		return listing, nil
	}

	if n, ok := numeric(envelope.Page); ok && n > 0 {
		listing.Page = n
	}
	if n, ok := numeric(envelope.PageCount); ok && n > 0 {
		listing.PageCount = n
		listing.PageCountDeclared = true
	}

	if len(envelope.List) == 0 || string(envelope.List) == "null" {
		logger := config.GetLogger()
		logger.Debug().Msg("JSON listing has no list array, returning zero records")
		return listing, nil
	}

	var records []models.Video
	if err := json.Unmarshal(envelope.List, &records); err != nil {
		logger := config.GetLogger()
		logger.Debug().Msg("JSON listing has no usable list array, returning zero records")
		return listing, nil
	}

	for i := range records {
		records[i].ExpandPlayGroups()
	}
	listing.Records = records
	listing.HasList = true

	return listing, nil
}

// numeric reads a raw JSON scalar as an integer. Vendors are split between
// bare numbers and quoted digits for pagination fields, so both are accepted.
func numeric(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			return int(v), true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v, true
		}
	}
	return 0, false
}
