package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/chenxi-v/otva/internal/config"
	"github.com/chenxi-v/otva/internal/models"
	"github.com/chenxi-v/otva/internal/testutil"
)

func newTestClient(t *testing.T, opts ...Option) Client {
	t.Helper()

	cfg := &config.Config{
		ClientTimeout: "10s",
		PageSize:      24,
	}
	cfg.Cache.Provider = "memory"
	cfg.Cache.Size = 64
	cfg.Cache.TTL = "1m"

	c := NewClient(cfg, opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBuildListingURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "bare base",
			baseURL: "http://api.example.com/api.php/provide/vod",
			want:    "http://api.example.com/api.php/provide/vod?ac=videolist&t=6&pg=2&pagesize=24",
		},
		{
			name:    "base with existing query",
			baseURL: "http://api.example.com/api.php/provide/vod/?at=xml",
			want:    "http://api.example.com/api.php/provide/vod/?at=xml&ac=videolist&t=6&pg=2&pagesize=24",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildListingURL(tt.baseURL, 6, 2, 24); got != tt.want {
				t.Errorf("BuildListingURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	src := models.Source{ID: "s1"}
	cat := models.Category{TypeID: 6}
	if got := Key(src, cat, 3); got != "s1|6|3" {
		t.Errorf("Key() = %q, want s1|6|3", got)
	}
	if Key(src, cat, 3) == Key(src, cat, 4) {
		t.Error("keys for different pages collide")
	}
}

func TestFetchListing_JSONSuccess(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[{"vod_id":"1","vod_name":"A"}],"pagecount":3}`))
	}))
	defer server.Close()

	c := newTestClient(t)
	src := models.Source{ID: "s1", Name: "Src", URL: server.URL}
	result := c.FetchListing(context.Background(), src, models.Category{TypeID: 6}, 1)

	if result.State != models.StateSuccess {
		t.Fatalf("State = %v, want success", result.State)
	}
	if result.Page.PageCount != 3 || result.Page.Page != 1 {
		t.Errorf("pagination = %d/%d, want 1/3", result.Page.Page, result.Page.PageCount)
	}
	if len(result.Page.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(result.Page.Records))
	}

	rec := result.Page.Records[0]
	if rec.VodID != "1" || rec.Name != "A" {
		t.Errorf("record = %q/%q, want 1/A", rec.VodID, rec.Name)
	}
	if rec.SourceID != "s1" || rec.SourceName != "Src" || rec.SourceURL != server.URL {
		t.Errorf("source stamp = %q/%q/%q", rec.SourceID, rec.SourceName, rec.SourceURL)
	}

	if gotQuery["ac"][0] != "videolist" || gotQuery["t"][0] != "6" || gotQuery["pg"][0] != "1" || gotQuery["pagesize"][0] != "24" {
		t.Errorf("upstream query = %v", gotQuery)
	}
}

func TestFetchListing_XMLSuccess(t *testing.T) {
	payload := testutil.GenerateXMLListing(1, 5,
		testutil.XMLVideo{
			ID:   "201",
			Name: "XML Film",
			DLs:  []testutil.XMLPlayGroup{{Flag: "m3u8", URLs: "EP1$http://v/1.m3u8"}},
		},
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	c := newTestClient(t)
	src := models.Source{ID: "sx", Name: "XML Src", URL: server.URL}
	result := c.FetchListing(context.Background(), src, models.Category{TypeID: 1}, 1)

	if result.State != models.StateSuccess {
		t.Fatalf("State = %v, want success", result.State)
	}
	if result.Page.PageCount != 5 {
		t.Errorf("PageCount = %d, want 5", result.Page.PageCount)
	}
	rec := result.Page.Records[0]
	if rec.VodID != "201" || rec.SourceID != "sx" {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.PlayURLs) != 1 || rec.PlaySources[0] != "m3u8" {
		t.Errorf("play groups = %v / %v", rec.PlayURLs, rec.PlaySources)
	}
}

func TestFetchListing_MislabeledContentType(t *testing.T) {
	// XML body served as text/html: the body sniff must still route it to the
	// XML parser.
	payload := testutil.GenerateXMLListing(1, 1, testutil.XMLVideo{ID: "1", Name: "Sniffed"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	c := newTestClient(t)
	result := c.FetchListing(context.Background(), models.Source{ID: "sn", URL: server.URL}, models.Category{TypeID: 1}, 1)

	if result.State != models.StateSuccess {
		t.Fatalf("State = %v, want success", result.State)
	}
	if result.Page.Records[0].Name != "Sniffed" {
		t.Errorf("record = %+v", result.Page.Records[0])
	}
}

func TestFetchListing_NonSuccessStatusIsEmpty(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound, http.StatusBadGateway} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		c := newTestClient(t)
		result := c.FetchListing(context.Background(), models.Source{ID: "se", URL: server.URL}, models.Category{TypeID: 1}, 1)
		server.Close()

		if result.State != models.StateEmpty {
			t.Errorf("status %d: State = %v, want empty", status, result.State)
		}
		if result.Page != nil {
			t.Errorf("status %d: Page = %+v, want nil", status, result.Page)
		}
	}
}

func TestFetchListing_TransportFailureIsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	c := newTestClient(t)
	result := c.FetchListing(context.Background(), models.Source{ID: "st", URL: server.URL}, models.Category{TypeID: 1}, 1)

	if result.State != models.StateFailed {
		t.Errorf("State = %v, want failed", result.State)
	}
	if result.Page != nil {
		t.Errorf("Page = %+v, want nil", result.Page)
	}
}

func TestFetchListing_MalformedXMLIsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<list page="1"><video><id>1</id>`))
	}))
	defer server.Close()

	c := newTestClient(t)
	result := c.FetchListing(context.Background(), models.Source{ID: "sm", URL: server.URL}, models.Category{TypeID: 1}, 1)

	if result.State != models.StateFailed {
		t.Errorf("State = %v, want failed", result.State)
	}
}

func TestFetchListing_ZeroRecordXMLIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(testutil.GenerateXMLListing(1, 1)))
	}))
	defer server.Close()

	c := newTestClient(t)
	result := c.FetchListing(context.Background(), models.Source{ID: "sz", URL: server.URL}, models.Category{TypeID: 1}, 1)

	if result.State != models.StateSuccess {
		t.Fatalf("State = %v, want success: a well-formed empty page is not Empty", result.State)
	}
	if len(result.Page.Records) != 0 {
		t.Errorf("len(Records) = %d, want 0", len(result.Page.Records))
	}
}

func TestFetchListing_ListNotArrayIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list": "not-an-array", "page": 1}`))
	}))
	defer server.Close()

	c := newTestClient(t)
	result := c.FetchListing(context.Background(), models.Source{ID: "sl", URL: server.URL}, models.Category{TypeID: 1}, 1)

	if result.State != models.StateEmpty {
		t.Errorf("State = %v, want empty", result.State)
	}
}

func TestFetchListing_ServesRepeatFromCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testutil.GenerateJSONListing(1, `{"vod_id":"7","vod_name":"Cached"}`)))
	}))

	c := newTestClient(t)
	src := models.Source{ID: "sc", Name: "Cache Src", URL: server.URL}
	cat := models.Category{TypeID: 2}

	first := c.FetchListing(context.Background(), src, cat, 1)
	if first.State != models.StateSuccess {
		t.Fatalf("first fetch State = %v, want success", first.State)
	}
	if hits.Load() != 1 {
		t.Fatalf("upstream hits = %d, want 1", hits.Load())
	}

	// The upstream is gone; the repeat must come from cache.
	server.Close()

	second := c.FetchListing(context.Background(), src, cat, 1)
	if second.State != models.StateSuccess {
		t.Fatalf("cached fetch State = %v, want success", second.State)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d after cached repeat, want 1", hits.Load())
	}
	if second.Page.Records[0].Name != "Cached" || second.Page.Records[0].SourceID != "sc" {
		t.Errorf("cached record = %+v", second.Page.Records[0])
	}

	// A different page misses the cache and fails against the closed upstream.
	third := c.FetchListing(context.Background(), src, cat, 2)
	if third.State != models.StateFailed {
		t.Errorf("page 2 State = %v, want failed", third.State)
	}
}

func TestFetchListing_FailuresAreNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testutil.GenerateJSONListing(1, `{"vod_id":"1","vod_name":"Recovered"}`)))
	}))
	defer server.Close()

	c := newTestClient(t)
	src := models.Source{ID: "sf", URL: server.URL}
	cat := models.Category{TypeID: 3}

	if result := c.FetchListing(context.Background(), src, cat, 1); result.State != models.StateEmpty {
		t.Fatalf("first fetch State = %v, want empty", result.State)
	}
	if result := c.FetchListing(context.Background(), src, cat, 1); result.State != models.StateSuccess {
		t.Errorf("second fetch State = %v, want success after upstream recovery", result.State)
	}
	if hits.Load() != 2 {
		t.Errorf("upstream hits = %d, want 2", hits.Load())
	}
}

type fakePageStore struct {
	mu    sync.Mutex
	pages map[int]int
}

func (f *fakePageStore) SetTotalPages(typeID, pages int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pages == nil {
		f.pages = make(map[int]int)
	}
	f.pages[typeID] = pages
}

func (f *fakePageStore) get(typeID int) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.pages[typeID]
	return n, ok
}

func TestFetchListing_UpdatesPageStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[],"page":1,"pagecount":17}`))
	}))
	defer server.Close()

	store := &fakePageStore{}
	c := newTestClient(t, WithPageStore(store))

	result := c.FetchListing(context.Background(), models.Source{ID: "sp", URL: server.URL}, models.Category{TypeID: 9}, 1)
	if result.State != models.StateSuccess {
		t.Fatalf("State = %v, want success", result.State)
	}
	if n, ok := store.get(9); !ok || n != 17 {
		t.Errorf("SetTotalPages recorded %d (%v), want 17", n, ok)
	}
}

func TestFetchListing_NoPageStoreUpdateWithoutDeclaredCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[{"vod_id":"1","vod_name":"A"}]}`))
	}))
	defer server.Close()

	store := &fakePageStore{}
	c := newTestClient(t, WithPageStore(store))

	result := c.FetchListing(context.Background(), models.Source{ID: "sd", URL: server.URL}, models.Category{TypeID: 4}, 1)
	if result.State != models.StateSuccess {
		t.Fatalf("State = %v, want success", result.State)
	}
	if _, ok := store.get(4); ok {
		t.Error("SetTotalPages called even though the payload declared no pagecount")
	}
}

func TestFetchListing_ClampsPageBelowOne(t *testing.T) {
	var gotPg string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPg = r.URL.Query().Get("pg")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t)
	c.FetchListing(context.Background(), models.Source{ID: "sg", URL: server.URL}, models.Category{TypeID: 1}, 0)

	if gotPg != "1" {
		t.Errorf("upstream pg = %q, want 1", gotPg)
	}
}
