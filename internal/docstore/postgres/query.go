package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/lib/pq"
)

const defaultLimit = 25

// listQuery is a list request translated to SQL with '?' bindvars; callers Rebind it.
type listQuery struct {
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
}

func columnFor(attribute string) (string, bool) {
	switch attribute {
	case docstore.AttrID:
		return "id", true
	case docstore.AttrCreatedAt:
		return "created_at", true
	case docstore.AttrUpdatedAt:
		return "updated_at", true
	}
	return "", false
}

func buildListQuery(collection string, queries []docstore.Query) (*listQuery, error) {
	var (
		conditions = []string{"collection = ?"}
		whereArgs  = []any{collection}
		orders     []string
		orderArgs  []any
		selected   []string
		cursor     string
		limit      = defaultLimit
		offset     int
	)

	for _, q := range queries {
		switch q.Method {
		case docstore.MethodEqual:
			if len(q.Values) == 0 {
				return nil, fmt.Errorf("%w: equal on %q needs a value", docstore.ErrUnsupportedQuery, q.Attribute)
			}
			parts := make([]string, 0, len(q.Values))
			for _, v := range q.Values {
				if col, ok := columnFor(q.Attribute); ok {
					parts = append(parts, col+" = ?")
					whereArgs = append(whereArgs, v)
					continue
				}
				encoded, err := json.Marshal(v)
				if err != nil {
					return nil, fmt.Errorf("encode equal value: %w", err)
				}
				parts = append(parts, "data -> ?::text = ?::jsonb")
				whereArgs = append(whereArgs, q.Attribute, string(encoded))
			}
			conditions = append(conditions, "("+strings.Join(parts, " OR ")+")")

		case docstore.MethodSearch:
			term, _ := q.StringValue()
			if _, ok := columnFor(q.Attribute); ok {
				return nil, fmt.Errorf("%w: search on system attribute %q", docstore.ErrUnsupportedQuery, q.Attribute)
			}
			conditions = append(conditions, "data ->> ?::text ILIKE ?")
			whereArgs = append(whereArgs, q.Attribute, "%"+term+"%")

		case docstore.MethodOrderAsc, docstore.MethodOrderDesc:
			dir := "ASC"
			if q.Method == docstore.MethodOrderDesc {
				dir = "DESC"
			}
			if col, ok := columnFor(q.Attribute); ok {
				orders = append(orders, col+" "+dir)
				continue
			}
			orders = append(orders, "data -> ?::text "+dir)
			orderArgs = append(orderArgs, q.Attribute)

		case docstore.MethodLimit:
			limit, _ = q.IntValue()
		case docstore.MethodOffset:
			offset, _ = q.IntValue()
		case docstore.MethodCursorAfter:
			cursor, _ = q.StringValue()
		case docstore.MethodSelect:
			selected = q.Strings()
		default:
			return nil, fmt.Errorf("%w: %s", docstore.ErrUnsupportedQuery, q.Method)
		}
	}

	countSQL := "SELECT count(*) FROM documents WHERE " + strings.Join(conditions, " AND ")
	countArgs := append([]any(nil), whereArgs...)

	if cursor != "" {
		// keyset on id only; with custom ordering the cursor position is ambiguous
		if len(orders) > 0 {
			return nil, fmt.Errorf("%w: cursor with custom ordering", docstore.ErrUnsupportedQuery)
		}
		conditions = append(conditions, "id > ?")
		whereArgs = append(whereArgs, cursor)
	}

	dataExpr := "data"
	var selectArgs []any
	if len(selected) > 0 {
		dataExpr = "COALESCE((SELECT jsonb_object_agg(key, value) FROM jsonb_each(data) WHERE key = ANY(?)), '{}'::jsonb) AS data"
		selectArgs = append(selectArgs, pq.Array(selected))
	}

	orders = append(orders, "id ASC")

	sql := fmt.Sprintf("SELECT id, %s, created_at, updated_at FROM documents WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		dataExpr, strings.Join(conditions, " AND "), strings.Join(orders, ", "), limit, offset)

	args := make([]any, 0, len(selectArgs)+len(whereArgs)+len(orderArgs))
	args = append(args, selectArgs...)
	args = append(args, whereArgs...)
	args = append(args, orderArgs...)

	return &listQuery{SQL: sql, Args: args, CountSQL: countSQL, CountArgs: countArgs}, nil
}
