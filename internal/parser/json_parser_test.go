package parser

import (
	"strings"
	"testing"

	"github.com/chenxi-v/otva/internal/testutil"
)

func TestJSONParser_Parse(t *testing.T) {
	parser := NewJSONParser()

	payload := testutil.GenerateJSONListing(3,
		`{"vod_id":101,"vod_name":"First Film","vod_pic":"http://img/101.jpg","type_name":"Movie","vod_year":2023,"vod_remarks":"HD","vod_play_from":"m3u8$$$mp4","vod_play_url":"ep1$http://v/1.m3u8$$$ep1$http://v/1.mp4"}`,
		`{"vod_id":"102","vod_name":"Second Film"}`,
	)

	listing, err := parser.Parse(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if listing.Page != 1 || listing.PageCount != 3 {
		t.Errorf("pagination = %d/%d, want 1/3", listing.Page, listing.PageCount)
	}
	if !listing.PageCountDeclared {
		t.Error("PageCountDeclared = false, want true")
	}
	if !listing.HasList {
		t.Error("HasList = false, want true")
	}
	if len(listing.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(listing.Records))
	}

	first := listing.Records[0]
	if first.VodID != "101" {
		t.Errorf("numeric vod_id = %q, want 101", first.VodID)
	}
	if first.Year != "2023" {
		t.Errorf("numeric vod_year = %q, want 2023", first.Year)
	}
	if len(first.PlayURLs) != 2 || first.PlayURLs[0] != "ep1$http://v/1.m3u8" {
		t.Errorf("PlayURLs = %v", first.PlayURLs)
	}
	if len(first.PlaySources) != 2 || first.PlaySources[0] != "m3u8" || first.PlaySources[1] != "mp4" {
		t.Errorf("PlaySources = %v", first.PlaySources)
	}

	if listing.Records[1].VodID != "102" {
		t.Errorf("quoted vod_id = %q, want 102", listing.Records[1].VodID)
	}
}

func TestJSONParser_Parse_ListNotArray(t *testing.T) {
	parser := NewJSONParser()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "string list", payload: `{"list": "not-an-array", "page": 1}`},
		{name: "object list", payload: `{"list": {"oops": true}}`},
		{name: "null list", payload: `{"list": null, "pagecount": 4}`},
		{name: "missing list", payload: `{"page": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, err := parser.Parse(strings.NewReader(tt.payload))
			if err != nil {
				t.Fatalf("Parse() error = %v, want nil", err)
			}
			if len(listing.Records) != 0 {
				t.Errorf("len(Records) = %d, want 0", len(listing.Records))
			}
			if listing.HasList {
				t.Error("HasList = true, want false")
			}
		})
	}
}

func TestJSONParser_Parse_Undecodable(t *testing.T) {
	parser := NewJSONParser()

	listing, err := parser.Parse(strings.NewReader(`<html>not json</html>`))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if listing.Page != 1 || listing.PageCount != 1 {
		t.Errorf("pagination = %d/%d, want 1/1", listing.Page, listing.PageCount)
	}
	if len(listing.Records) != 0 || listing.HasList {
		t.Errorf("listing = %+v, want empty without list", listing)
	}
}

func TestJSONParser_Parse_EmptyList(t *testing.T) {
	parser := NewJSONParser()

	listing, err := parser.Parse(strings.NewReader(`{"list": [], "page": 1, "pagecount": 1}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !listing.HasList {
		t.Error("HasList = false for a present empty array, want true")
	}
	if len(listing.Records) != 0 {
		t.Errorf("len(Records) = %d, want 0", len(listing.Records))
	}
}

func TestJSONParser_Parse_QuotedPagination(t *testing.T) {
	parser := NewJSONParser()

	listing, err := parser.Parse(strings.NewReader(`{"list": [], "page": "3", "pagecount": "12"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if listing.Page != 3 || listing.PageCount != 12 {
		t.Errorf("pagination = %d/%d, want 3/12", listing.Page, listing.PageCount)
	}
	if !listing.PageCountDeclared {
		t.Error("PageCountDeclared = false, want true")
	}
}

func TestJSONParser_Parse_InvalidPaginationDefaults(t *testing.T) {
	parser := NewJSONParser()

	listing, err := parser.Parse(strings.NewReader(`{"list": [], "page": "soon", "pagecount": -2}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if listing.Page != 1 || listing.PageCount != 1 {
		t.Errorf("pagination = %d/%d, want 1/1", listing.Page, listing.PageCount)
	}
	if listing.PageCountDeclared {
		t.Error("PageCountDeclared = true for a negative pagecount")
	}
}
