package appwrite

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{
		Endpoint:   server.URL + "/v1",
		ProjectID:  "storefront",
		APIKey:     "secret",
		DatabaseID: "main",
		RPS:        1000,
		Burst:      100,
	}, logger.NewNop())
}

func TestClient_ListDocuments(t *testing.T) {
	var gotQueries []string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/databases/main/collections/products/documents", r.URL.Path)
		assert.Equal(t, "storefront", r.Header.Get("X-Appwrite-Project"))
		assert.Equal(t, "secret", r.Header.Get("X-Appwrite-Key"))
		gotQueries = r.URL.Query()["queries[]"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"total": 2, "documents": [
			{"$id": "p1", "$createdAt": "2024-03-01T08:00:00.000+00:00", "$updatedAt": "2024-03-01T08:00:00.000+00:00", "name": "Kopi"},
			{"$id": "p2", "$createdAt": "2024-03-01T08:00:00.000+00:00", "$updatedAt": "2024-03-01T08:00:00.000+00:00", "name": "Teh"}
		]}`)
	})

	list, err := c.ListDocuments(context.Background(), "products",
		docstore.Equal("isOnSale", true),
		docstore.Limit(2),
		docstore.CursorAfter("p0"),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Documents, 2)
	assert.Equal(t, "p1", list.Documents[0].ID)
	assert.Equal(t, "p2", list.Documents[1].ID)

	require.Len(t, gotQueries, 3)
	assert.JSONEq(t, `{"method":"equal","attribute":"isOnSale","values":[true]}`, gotQueries[0])
	assert.JSONEq(t, `{"method":"limit","values":[2]}`, gotQueries[1])
	assert.JSONEq(t, `{"method":"cursorAfter","values":["p0"]}`, gotQueries[2])
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: docstore.ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway, wantErr: ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.GetDocument(context.Background(), "products", "p1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var opErr *Error
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, "get", opErr.Op)
			assert.Equal(t, "p1", opErr.ID)
		})
	}

	t.Run("api error body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"Invalid query: Cursor not found","code":400,"type":"general_query_invalid"}`)
		})

		_, err := c.ListDocuments(context.Background(), "products", docstore.CursorAfter("gone"))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "general_query_invalid", apiErr.Type)
		assert.Contains(t, apiErr.Message, "Cursor not found")
	})
}

func TestClient_CreateAndUpdate(t *testing.T) {
	var (
		method string
		path   string
		body   map[string]any
	)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body = map[string]any{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"$id":"n1","$createdAt":"2024-03-01T08:00:00.000+00:00","$updatedAt":"2024-03-01T08:00:00.000+00:00","requestStatus":"pending"}`)
	})

	doc, err := c.CreateDocument(context.Background(), "notifications", "n1", map[string]any{"requestStatus": "pending"})
	require.NoError(t, err)
	assert.Equal(t, "n1", doc.ID)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/v1/databases/main/collections/notifications/documents", path)
	assert.Equal(t, "n1", body["documentId"])
	assert.Equal(t, map[string]any{"requestStatus": "pending"}, body["data"])

	_, err = c.UpdateDocument(context.Background(), "notifications", "n1", map[string]any{"isRead": true})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/v1/databases/main/collections/notifications/documents/n1", path)
	assert.Equal(t, map[string]any{"isRead": true}, body["data"])
	assert.NotContains(t, body, "documentId")
}

func TestClient_FileView(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/storage/buckets/images/files/icon-1":
			_, _ = io.WriteString(w, `{"$id":"icon-1","name":"icon.png"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	u, err := c.FileView(context.Background(), "images", "icon-1")
	require.NoError(t, err)
	assert.Equal(t, c.base+"/storage/buckets/images/files/icon-1/view?project=storefront", u)

	u, err = c.FilePreview(context.Background(), "images", "icon-1", 200, 0)
	require.NoError(t, err)
	assert.Equal(t, c.base+"/storage/buckets/images/files/icon-1/preview?project=storefront&width=200", u)

	_, err = c.FileView(context.Background(), "images", "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	_, err = c.FileView(context.Background(), "images", "")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
