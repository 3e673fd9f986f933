package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding detection
// and conversion to UTF-8. Chinese upstream sources commonly serve XML in
// GBK/GB2312, so payloads must be converted before hitting the XML decoder.
//
// The charset is detected from:
// 1. XML <?xml encoding="..."> declarations
// 2. Byte order marks (BOM)
// 3. Heuristic detection if neither is present
//
// If the content is already UTF-8, this is a no-op wrapper with minimal overhead.
func NewUTF8Reader(body io.Reader) (io.Reader, error) {
	// contentType is empty so detection happens from the payload itself
	return charset.NewReader(body, "")
}
