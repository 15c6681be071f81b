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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCluster struct {
	mu      sync.Mutex
	indices map[string]bool
	docs    map[string]string
	queries []map[string]any
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodHead && len(parts) == 1:
		if !f.indices[parts[0]] {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && len(parts) == 1:
		f.indices[parts[0]] = true
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	case len(parts) == 3 && parts[1] == "_doc":
		body, _ := io.ReadAll(r.Body)
		f.docs[parts[2]] = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case len(parts) == 2 && parts[1] == "_search":
		var q map[string]any
		_ = json.NewDecoder(r.Body).Decode(&q)
		f.queries = append(f.queries, q)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_id":"p1","_score":1.5,"_source":{"name":"Mango"}}]}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeCluster) {
	t.Helper()
	cluster := &fakeCluster{indices: map[string]bool{}, docs: map[string]string{}}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c, cluster
}

func TestClient_IndexAndSearch(t *testing.T) {
	c, cluster := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateIndex(ctx, "products", `{"mappings":{}}`))
	require.NoError(t, c.CreateIndex(ctx, "products", `{"mappings":{}}`))
	assert.True(t, cluster.indices["products"])

	require.NoError(t, c.Index(ctx, "products", "p1", map[string]any{"name": "Mango"}))
	assert.JSONEq(t, `{"name":"Mango"}`, cluster.docs["p1"])

	res, err := c.Search(ctx, "products", map[string]any{"size": 5})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Hits.Total.Value)
	require.Len(t, res.Hits.Hits, 1)
	assert.Equal(t, "p1", res.Hits.Hits[0].ID)
	assert.JSONEq(t, `{"name":"Mango"}`, string(res.Hits.Hits[0].Source))
	assert.Equal(t, float64(5), cluster.queries[0]["size"])
}
