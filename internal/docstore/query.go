package docstore

import (
	"encoding/json"
	"fmt"
)

type Method string

const (
	MethodEqual       Method = "equal"
	MethodSearch      Method = "search"
	MethodOrderAsc    Method = "orderAsc"
	MethodOrderDesc   Method = "orderDesc"
	MethodLimit       Method = "limit"
	MethodOffset      Method = "offset"
	MethodCursorAfter Method = "cursorAfter"
	MethodSelect      Method = "select"
)

// System attributes available on every document.
const (
	AttrID        = "$id"
	AttrCreatedAt = "$createdAt"
	AttrUpdatedAt = "$updatedAt"
)

// Query is one list predicate. Its JSON form is the wire format of the hosted backend.
type Query struct {
	Method    Method `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals any of values.
func Equal(attribute string, values ...any) Query {
	return Query{Method: MethodEqual, Attribute: attribute, Values: values}
}

func Search(attribute, term string) Query {
	return Query{Method: MethodSearch, Attribute: attribute, Values: []any{term}}
}

func OrderAsc(attribute string) Query {
	return Query{Method: MethodOrderAsc, Attribute: attribute}
}

func OrderDesc(attribute string) Query {
	return Query{Method: MethodOrderDesc, Attribute: attribute}
}

func Limit(n int) Query {
	return Query{Method: MethodLimit, Values: []any{n}}
}

func Offset(n int) Query {
	return Query{Method: MethodOffset, Values: []any{n}}
}

// CursorAfter resumes a listing after the document with the given id.
func CursorAfter(id string) Query {
	return Query{Method: MethodCursorAfter, Values: []any{id}}
}

// Select restricts the returned attributes. System attributes are always returned.
func Select(attributes ...string) Query {
	values := make([]any, len(attributes))
	for i, a := range attributes {
		values[i] = a
	}
	return Query{Method: MethodSelect, Values: values}
}

func (q Query) String() string {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Sprintf("%s(%s)", q.Method, q.Attribute)
	}
	return string(b)
}

// IntValue returns the first value of a limit or offset query.
func (q Query) IntValue() (int, bool) {
	if len(q.Values) == 0 {
		return 0, false
	}
	switch v := q.Values[0].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// StringValue returns the first value of a cursor or search query.
func (q Query) StringValue() (string, bool) {
	if len(q.Values) == 0 {
		return "", false
	}
	s, ok := q.Values[0].(string)
	return s, ok
}

// Strings returns all values that are strings, as used by select.
func (q Query) Strings() []string {
	out := make([]string, 0, len(q.Values))
	for _, v := range q.Values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
