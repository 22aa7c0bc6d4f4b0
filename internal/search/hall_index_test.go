package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"functionhall/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	f.bodies[key] = string(body)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusNotFound)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":4}},{"_source":{"id":2}}]}}`))
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	default:
		_, _ = w.Write([]byte(`{"acknowledged":true,"result":"created"}`))
	}
}

func (f *fakeES) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == key {
			return true
		}
	}
	return false
}

func newFakeIndex(t *testing.T) (*HallIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{bodies: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	idx, err := NewHallIndex(context.Background(), srv.URL, "halls")
	require.NoError(t, err)
	return idx, fake
}

func TestNewHallIndex_CreatesMissingIndex(t *testing.T) {
	_, fake := newFakeIndex(t)
	assert.True(t, fake.has("HEAD /halls"))
	assert.True(t, fake.has("PUT /halls"))
}

func TestHallIndex_IndexHall(t *testing.T) {
	idx, fake := newFakeIndex(t)

	h := &domain.Hall{ID: 12, HallFields: domain.HallFields{Name: "Lotus", Location: "Hyderabad", Capacity: 400}}
	h.Packages = []domain.Package{{PackageName: "Gold"}}
	require.NoError(t, idx.IndexHall(context.Background(), h))

	require.True(t, fake.has("PUT /halls/_doc/12"))
	var doc HallDocument
	require.NoError(t, json.Unmarshal([]byte(fake.bodies["PUT /halls/_doc/12"]), &doc))
	assert.Equal(t, "Lotus", doc.Name)
	assert.Equal(t, []string{"Gold"}, doc.Packages)
}

func TestHallIndex_DeleteIgnoresMissingDocument(t *testing.T) {
	idx, fake := newFakeIndex(t)
	require.NoError(t, idx.DeleteHall(context.Background(), 5))
	assert.True(t, fake.has("DELETE /halls/_doc/5"))
}

func TestHallIndex_SearchIDs(t *testing.T) {
	idx, _ := newFakeIndex(t)

	ids, err := idx.SearchIDs(context.Background(), "lotus", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, ids)
}
