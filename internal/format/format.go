// Package format decides which wire format an upstream video API speaks.
//
// Detection happens twice per request: once from the source URL before the
// fetch (a hint only, used for logging and metrics), and once from the actual
// response (authoritative). Upstream servers routinely mislabel content
// types, so the response check falls back to sniffing the body prefix.
package format

import (
	"bytes"
	"mime"
	"net/url"
	"strings"
)

// Format tags one of the two supported wire dialects.
type Format int

const (
	JSON Format = iota
	XML
)

func (f Format) String() string {
	if f == XML {
		return "xml"
	}
	return "json"
}

// DetectFromURL returns the pre-fetch format hint for a source base URL.
// Sources exposing the XML dialect mark it with an "xml" path segment
// (e.g. ".../provide/vod/at/xml/") or an at=xml query parameter.
func DetectFromURL(rawURL string) Format {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return JSON
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if strings.EqualFold(segment, "xml") {
			return XML
		}
	}
	if strings.EqualFold(u.Query().Get("at"), "xml") {
		return XML
	}
	return JSON
}

// DetectFromResponse returns the authoritative format of a fetched response.
// The content-type header wins when it names a format; otherwise the trimmed
// body prefix is sniffed. This result always overrides the URL hint.
func DetectFromResponse(contentType string, body []byte) Format {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case strings.Contains(mediaType, "xml"):
			return XML
		case strings.Contains(mediaType, "json"):
			return JSON
		}
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n\xEF\xBB\xBF")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<")) {
		return XML
	}
	return JSON
}
