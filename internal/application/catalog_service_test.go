package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

const testIndex = "doki-packages"

// fakeES answers the subset of the Elasticsearch API the catalog uses.
type fakeES struct {
	mu         sync.Mutex
	searchBody map[string]any
	searchCode int
	hits       []entity.Package
	indexed    map[string]entity.Package
}

func newFakeES(t *testing.T) (*fakeES, *elasticsearch.Client) {
	t.Helper()
	f := &fakeES{searchCode: http.StatusOK, indexed: map[string]entity.Package{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/"+testIndex+"/_search":
			f.searchBody = map[string]any{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.searchBody))
			if f.searchCode != http.StatusOK {
				w.WriteHeader(f.searchCode)
				_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":400}`))
				return
			}
			hits := make([]map[string]any, 0, len(f.hits))
			for _, p := range f.hits {
				hits = append(hits, map[string]any{"_index": testIndex, "_id": strconv.FormatInt(p.ID, 10), "_source": p})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"total": map[string]any{"value": len(hits)}, "hits": hits}})
		case strings.HasPrefix(r.URL.Path, "/"+testIndex+"/_doc/"):
			assert.Equal(t, http.MethodPut, r.Method)
			var p entity.Package
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			id := strings.TrimPrefix(r.URL.Path, "/"+testIndex+"/_doc/")
			f.indexed[id] = p
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"result":"created","_id":"` + id + `"}`))
		default:
			t.Errorf("unexpected es call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	es, err := helpers.NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return f, es
}

func (f *fakeES) setHits(hits []entity.Package, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits, f.searchCode = hits, code
}

func (f *fakeES) lastSearch() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchBody
}

func (f *fakeES) docs() map[string]entity.Package {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]entity.Package, len(f.indexed))
	for k, v := range f.indexed {
		out[k] = v
	}
	return out
}

func TestCatalog_SearchBuildsMultiMatch(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	es, client := newFakeES(t)
	hits := []entity.Package{
		{ID: 7, Name: "Seongsu Glow", Concepts: []string{"glow"}, Region: "seongsu", Price: 90000},
		{ID: 9, Name: "Hongdae Pastel", Region: "hongdae", Price: 70000},
	}
	es.setHits(hits, http.StatusOK)
	svc := NewCatalogService(f.api, client, testIndex, helpers.DiscardLogger())

	got, err := svc.Search(context.Background(), "glow", 5)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, hits[0], got[0])
	assert.Equal(t, "Hongdae Pastel", got[1].Name)

	body := es.lastSearch()
	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "glow", mm["query"])
	assert.Equal(t, []any{"name^3", "concepts^2", "region", "description"}, mm["fields"])
	assert.EqualValues(t, 5, body["size"])
}

func TestCatalog_SearchSizeBounds(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	es, client := newFakeES(t)
	svc := NewCatalogService(f.api, client, testIndex, helpers.DiscardLogger())

	for _, size := range []int{0, -1, 51} {
		_, err := svc.Search(context.Background(), "pastel", size)
		require.NoError(t, err)
		assert.EqualValues(t, 10, es.lastSearch()["size"], "size %d", size)
	}
	_, err := svc.Search(context.Background(), "pastel", 50)
	require.NoError(t, err)
	assert.EqualValues(t, 50, es.lastSearch()["size"])
}

func TestCatalog_SearchErrorReplyYieldsNoHits(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	es, client := newFakeES(t)
	es.setHits([]entity.Package{{ID: 1, Name: "ignored"}}, http.StatusBadRequest)
	svc := NewCatalogService(f.api, client, testIndex, helpers.DiscardLogger())

	got, err := svc.Search(context.Background(), "glow", 10)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalog_SearchUnconfigured(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	svc := NewCatalogService(f.api, nil, "", helpers.DiscardLogger())

	got, err := svc.Search(context.Background(), "glow", 10)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, svc.Index(context.Background(), entity.Package{ID: 1}))
}

func TestCatalog_IndexWritesDocumentByID(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	es, client := newFakeES(t)
	svc := NewCatalogService(f.api, client, testIndex, helpers.DiscardLogger())
	p := entity.Package{ID: 42, Name: "Gangnam Studio", Concepts: []string{"chic"}, Price: 120000}

	require.NoError(t, svc.Index(context.Background(), p))

	assert.Equal(t, map[string]entity.Package{"42": p}, es.docs())
}

func TestCatalog_Reindex(t *testing.T) {
	tests := []struct {
		name      string
		available int
		total     int
		wantPages int
	}{
		{name: "short last page", available: 2*indexPageSize + indexPageSize/2, total: 2*indexPageSize + indexPageSize/2, wantPages: 3},
		{name: "total reached on full page", available: 2 * indexPageSize, total: 2 * indexPageSize, wantPages: 2},
		{name: "total unknown", available: indexPageSize + 3, wantPages: 2},
		{name: "empty catalog", wantPages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			var pages []int
			mux := http.NewServeMux()
			mux.HandleFunc("/packages", func(w http.ResponseWriter, r *http.Request) {
				page, _ := strconv.Atoi(r.URL.Query().Get("page"))
				size, _ := strconv.Atoi(r.URL.Query().Get("size"))
				assert.Equal(t, indexPageSize, size)
				mu.Lock()
				pages = append(pages, page)
				mu.Unlock()

				items := []entity.Package{}
				for i := (page - 1) * size; i < page*size && i < tt.available; i++ {
					items = append(items, entity.Package{ID: int64(i + 1), Name: "pkg-" + strconv.Itoa(i+1)})
				}
				writeJSON(w, http.StatusOK, entity.PackagePage{Items: items, Page: page, Size: size, Total: tt.total})
			})
			f := newFixture(t, mux)
			es, client := newFakeES(t)
			svc := NewCatalogService(f.api, client, testIndex, helpers.DiscardLogger())

			n, err := svc.Reindex(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.available, n)
			assert.Len(t, es.docs(), tt.available)
			mu.Lock()
			defer mu.Unlock()
			assert.Len(t, pages, tt.wantPages)
			for i, p := range pages {
				assert.Equal(t, i+1, p)
			}
		})
	}
}

func TestCatalog_ReindexStopsOnBackendError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/packages", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		items := make([]entity.Package, indexPageSize)
		for i := range items {
			items[i] = entity.Package{ID: int64(i + 1)}
		}
		writeJSON(w, http.StatusOK, entity.PackagePage{Items: items, Page: 1, Size: indexPageSize})
	})
	f := newFixture(t, mux)
	_, client := newFakeES(t)
	svc := NewCatalogService(f.api, client, testIndex, helpers.DiscardLogger())

	n, err := svc.Reindex(context.Background())

	assert.Error(t, err)
	assert.Equal(t, indexPageSize, n)
}
