// Package docstoretest provides an in-memory docstore.Client for tests.
package docstoretest

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
)

const defaultLimit = 25

type ListCall struct {
	Collection string
	Queries    []docstore.Query
}

type UpdateCall struct {
	Collection string
	ID         string
	Data       map[string]any
}

// Memory keeps documents per collection in insertion order.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
	now         func() time.Time

	ListCalls   []ListCall
	UpdateCalls []UpdateCall

	// ListErr fails every ListDocuments call on the collection.
	ListErr map[string]error
	// GetErr fails GetDocument for one document id.
	GetErr map[string]error
	// UpdateErr fails UpdateDocument for one document id.
	UpdateErr map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		collections: map[string][]map[string]any{},
		now:         func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
		ListErr:     map[string]error{},
		GetErr:      map[string]error{},
		UpdateErr:   map[string]error{},
	}
}

// Seed stores a document as-is. Values are normalised through JSON like a real backend.
func (m *Memory) Seed(collection, id string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := normalize(data)
	ts := m.now().Format(time.RFC3339Nano)
	doc[docstore.AttrID] = id
	doc[docstore.AttrCreatedAt] = ts
	doc[docstore.AttrUpdatedAt] = ts
	m.collections[collection] = append(m.collections[collection], doc)
}

// ListCallCount returns how many list requests hit collection.
func (m *Memory) ListCallCount(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.ListCalls {
		if c.Collection == collection {
			n++
		}
	}
	return n
}

// Raw returns a copy of the stored document, or nil.
func (m *Memory) Raw(collection, id string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, doc := m.find(collection, id); doc != nil {
		return normalize(doc)
	}
	return nil
}

func (m *Memory) ListDocuments(ctx context.Context, collection string, queries ...docstore.Query) (*docstore.DocumentList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls = append(m.ListCalls, ListCall{Collection: collection, Queries: queries})
	if err := m.ListErr[collection]; err != nil {
		return nil, err
	}

	var (
		filtered []map[string]any
		limit    = defaultLimit
		offset   int
		cursor   string
		selected []string
		orders   []docstore.Query
	)

	for _, doc := range m.collections[collection] {
		if matches(doc, queries) {
			filtered = append(filtered, doc)
		}
	}

	for _, q := range queries {
		switch q.Method {
		case docstore.MethodLimit:
			limit, _ = q.IntValue()
		case docstore.MethodOffset:
			offset, _ = q.IntValue()
		case docstore.MethodCursorAfter:
			cursor, _ = q.StringValue()
		case docstore.MethodSelect:
			selected = q.Strings()
		case docstore.MethodOrderAsc, docstore.MethodOrderDesc:
			orders = append(orders, q)
		}
	}

	if len(orders) > 0 {
		sort.SliceStable(filtered, func(i, j int) bool {
			for _, o := range orders {
				c := compare(filtered[i][o.Attribute], filtered[j][o.Attribute])
				if c == 0 {
					continue
				}
				if o.Method == docstore.MethodOrderDesc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	total := len(filtered)

	start := 0
	if cursor != "" {
		start = -1
		for i, doc := range filtered {
			if doc[docstore.AttrID] == cursor {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, fmt.Errorf("docstoretest: cursor %q not found", cursor)
		}
	}
	start += offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	out := &docstore.DocumentList{Total: total, Documents: []docstore.Document{}}
	for _, doc := range filtered[start:end] {
		d, err := toDocument(project(doc, selected))
		if err != nil {
			return nil, err
		}
		out.Documents = append(out.Documents, *d)
	}
	return out, nil
}

func (m *Memory) GetDocument(ctx context.Context, collection, id string) (*docstore.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.GetErr[id]; err != nil {
		return nil, err
	}
	_, doc := m.find(collection, id)
	if doc == nil {
		return nil, docstore.ErrNotFound
	}
	return toDocument(doc)
}

func (m *Memory) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	m.mu.Lock()
	if _, existing := m.find(collection, id); existing != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("docstoretest: document %s already exists", id)
	}
	m.mu.Unlock()

	m.Seed(collection, id, data)
	return m.GetDocument(ctx, collection, id)
}

func (m *Memory) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{Collection: collection, ID: id, Data: data})
	if err := m.UpdateErr[id]; err != nil {
		return nil, err
	}
	_, doc := m.find(collection, id)
	if doc == nil {
		return nil, docstore.ErrNotFound
	}
	for k, v := range normalize(data) {
		doc[k] = v
	}
	doc[docstore.AttrUpdatedAt] = m.now().Format(time.RFC3339Nano)
	return toDocument(doc)
}

func (m *Memory) find(collection, id string) (int, map[string]any) {
	for i, doc := range m.collections[collection] {
		if doc[docstore.AttrID] == id {
			return i, doc
		}
	}
	return -1, nil
}

func matches(doc map[string]any, queries []docstore.Query) bool {
	for _, q := range queries {
		switch q.Method {
		case docstore.MethodEqual:
			want := normalizeSlice(q.Values)
			found := false
			for _, v := range want {
				if reflect.DeepEqual(doc[q.Attribute], v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case docstore.MethodSearch:
			term, _ := q.StringValue()
			s, _ := doc[q.Attribute].(string)
			if !strings.Contains(strings.ToLower(s), strings.ToLower(term)) {
				return false
			}
		}
	}
	return true
}

func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	}
	return 0
}

func project(doc map[string]any, selected []string) map[string]any {
	if len(selected) == 0 {
		return doc
	}
	out := map[string]any{
		docstore.AttrID:        doc[docstore.AttrID],
		docstore.AttrCreatedAt: doc[docstore.AttrCreatedAt],
		docstore.AttrUpdatedAt: doc[docstore.AttrUpdatedAt],
	}
	for _, k := range selected {
		if v, ok := doc[k]; ok {
			out[k] = v
		}
	}
	return out
}

func toDocument(doc map[string]any) (*docstore.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var d docstore.Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func normalize(data map[string]any) map[string]any {
	raw, _ := json.Marshal(data)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return out
}

func normalizeSlice(values []any) []any {
	raw, _ := json.Marshal(values)
	var out []any
	_ = json.Unmarshal(raw, &out)
	return out
}
