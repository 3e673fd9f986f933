// Package testutil holds fixture builders for listing payloads shared across
// parser and client tests.
package testutil

import (
	"fmt"
	"strings"
)

// XMLVideo describes one <video> element for fixture generation. Empty fields
// are omitted from the output entirely.
type XMLVideo struct {
	ID       string
	Name     string
	Pic      string
	Type     string
	Year     string
	Area     string
	Director string
	Actor    string
	Note     string
	Des      string
	// DLs maps flag → play URL group. One <dd> is emitted per entry, all
	// inside a single <dl>. Iteration order follows the slice.
	DLs []XMLPlayGroup
}

// XMLPlayGroup is one <dd> element: its flag attribute and text content.
// An empty Flag omits the attribute.
type XMLPlayGroup struct {
	Flag string
	URLs string
}

// GenerateXMLListing renders a complete XML listing document with the given
// pagination attributes and videos.
func GenerateXMLListing(page, pagecount int, videos ...XMLVideo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="utf-8"?>`+"\n")
	fmt.Fprintf(&sb, `<list page="%d" pagecount="%d">`+"\n", page, pagecount)
	for _, v := range videos {
		sb.WriteString(GenerateXMLVideo(v))
	}
	sb.WriteString("</list>\n")
	return sb.String()
}

// GenerateXMLVideo renders one <video> element.
func GenerateXMLVideo(v XMLVideo) string {
	var sb strings.Builder
	sb.WriteString("<video>\n")

	emit := func(tag, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "<%s>%s</%s>\n", tag, value, tag)
		}
	}
	emit("id", v.ID)
	emit("name", v.Name)
	emit("pic", v.Pic)
	emit("type", v.Type)
	emit("year", v.Year)
	emit("area", v.Area)
	emit("director", v.Director)
	emit("actor", v.Actor)
	emit("note", v.Note)
	emit("des", v.Des)

	if len(v.DLs) > 0 {
		sb.WriteString("<dl>\n")
		for _, g := range v.DLs {
			if g.Flag != "" {
				fmt.Fprintf(&sb, `<dd flag="%s"><![CDATA[%s]]></dd>`+"\n", g.Flag, g.URLs)
			} else {
				fmt.Fprintf(&sb, `<dd><![CDATA[%s]]></dd>`+"\n", g.URLs)
			}
		}
		sb.WriteString("</dl>\n")
	}

	sb.WriteString("</video>\n")
	return sb.String()
}

// GenerateJSONListing renders a JSON listing envelope from raw record objects.
func GenerateJSONListing(pagecount int, records ...string) string {
	return fmt.Sprintf(`{"page":1,"pagecount":%d,"list":[%s]}`, pagecount, strings.Join(records, ","))
}
