package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/chenxi-v/otva/internal/apperrors"
	"github.com/chenxi-v/otva/internal/config"
	"github.com/chenxi-v/otva/internal/models"
)

// XMLParser parses the XML listing dialect:
//
//	<list page="P" pagecount="C">
//	  <video>
//	    <id>..</id><name>..</name><pic>..</pic><type>..</type><year>..</year>
//	    <area>..</area><director>..</director><actor>..</actor>
//	    <note>..</note><des>..</des>
//	    <dl><dd flag="FLAG">url1$$$url2</dd></dl>
//	  </video>
//	</list>
//
// Missing optional elements are tolerated; fundamentally broken XML yields a
// ParseError. Records are returned in document order.
type XMLParser struct{}

// NewXMLParser creates a new XML listing parser instance
func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

// Parse walks the token stream and collects every <video> element, plus the
// page/pagecount attributes of the first <list> element. A payload without a
// <list> element still yields its <video> records with page and pagecount
// defaulting to 1.
func (p *XMLParser) Parse(body io.Reader) (*models.Listing, error) {
	utf8Body, err := NewUTF8Reader(body)
	if err != nil {
		return nil, apperrors.NewParseError("xml", err)
	}

	dec := xml.NewDecoder(utf8Body)
	// The payload is already UTF-8 here, but the XML declaration may still
	// claim gb2312 or similar; treat every declared charset as identity.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	// A well-formed XML document is always a usable record sequence, even
	// with zero <video> elements.
	listing := &models.Listing{Page: 1, PageCount: 1, HasList: true}
	sawList := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParseError("xml", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "list":
			// First <list> wins; its children (the videos) are still walked.
			if !sawList {
				sawList = true
				listing.Page = intAttr(se, "page", 1)
				if n, ok := intAttrOK(se, "pagecount"); ok {
					listing.PageCount = n
					listing.PageCountDeclared = true
				}
			}
		case "video":
			var xv xmlVideo
			if err := dec.DecodeElement(&xv, &se); err != nil {
				return nil, apperrors.NewParseError("xml", err)
			}
			listing.Records = append(listing.Records, xv.toVideo())
		}
	}

	logger := config.GetLogger()
	logger.Debug().
		Int("records", len(listing.Records)).
		Int("page", listing.Page).
		Int("pagecount", listing.PageCount).
		Msg("Parsed XML listing")

	return listing, nil
}

// intAttr reads an integer attribute off a start element, falling back to def
// when the attribute is absent or non-numeric.
func intAttr(se xml.StartElement, name string, def int) int {
	if n, ok := intAttrOK(se, name); ok {
		return n
	}
	return def
}

func intAttrOK(se xml.StartElement, name string) (int, bool) {
	for _, attr := range se.Attr {
		if attr.Name.Local != name {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(attr.Value))
		return n, err == nil
	}
	return 0, false
}

// xmlVideo is the typed decode target for one <video> element.
type xmlVideo struct {
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
	DLs      []xmlDL
}

type xmlDL struct {
	DDs []xmlDD `xml:"dd"`
}

type xmlDD struct {
	Flag string `xml:"flag,attr"`
	Text string `xml:",chardata"`
}

// UnmarshalXML decodes the children of a <video> element explicitly. Only the
// first occurrence of each named child is kept; repeated tags and unknown
// elements are consumed and ignored. A missing child simply leaves its field
// empty.
func (v *xmlVideo) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	seen := make(map[string]bool, 10)

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch name {
			case "dl":
				var dl xmlDL
				if err := d.DecodeElement(&dl, &t); err != nil {
					return err
				}
				v.DLs = append(v.DLs, dl)
			case "id", "name", "pic", "type", "year", "area", "director", "actor", "note", "des":
				var text string
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				if !seen[name] {
					seen[name] = true
					v.setField(name, text)
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (v *xmlVideo) setField(name, text string) {
	text = strings.TrimSpace(text)
	switch name {
	case "id":
		v.ID = text
	case "name":
		v.Name = text
	case "pic":
		v.Pic = text
	case "type":
		v.Type = text
	case "year":
		v.Year = text
	case "area":
		v.Area = text
	case "director":
		v.Director = text
	case "actor":
		v.Actor = text
	case "note":
		v.Note = text
	case "des":
		v.Des = text
	}
}

// toVideo maps the fixed tag set onto the canonical record and flattens the
// distribution lists. A <dd> with blank text contributes to neither PlayURLs
// nor PlaySources, which keeps the two slices index-aligned.
func (v *xmlVideo) toVideo() models.Video {
	out := models.Video{
		VodID:    v.ID,
		Name:     v.Name,
		Pic:      v.Pic,
		TypeName: v.Type,
		Year:     v.Year,
		Area:     v.Area,
		Director: v.Director,
		Actor:    v.Actor,
		Remarks:  v.Note,
		Content:  v.Des,
	}

	for _, dl := range v.DLs {
		for _, dd := range dl.DDs {
			text := strings.TrimSpace(dd.Text)
			if text == "" {
				continue
			}
			flag := strings.TrimSpace(dd.Flag)
			if flag == "" {
				flag = models.DefaultPlayFlag
			}
			out.PlayURLs = append(out.PlayURLs, text)
			out.PlaySources = append(out.PlaySources, flag)
		}
	}

	if len(out.PlayURLs) > 0 {
		out.PlayURL = strings.Join(out.PlayURLs, models.PlayGroupSeparator)
		out.PlayFrom = strings.Join(out.PlaySources, models.PlayGroupSeparator)
	}

	return out
}
