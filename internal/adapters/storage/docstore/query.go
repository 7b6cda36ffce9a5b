package docstore

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"studio/internal/domain/caldate"
)

// Op is a filter operator.
type Op string

// Supported operators.
const (
	OpEqual         Op = "=="
	OpNotEqual      Op = "!="
	OpLess          Op = "<"
	OpLessEqual     Op = "<="
	OpGreater       Op = ">"
	OpGreaterEqual  Op = ">="
	OpArrayContains Op = "array-contains"
)

// Direction orders query results.
type Direction int

const (
	Asc Direction = iota
	Desc
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

type filter struct {
	field string
	op    Op
	value any
}

type order struct {
	field string
	dir   Direction
}

// Query is an immutable query over one collection.
type Query struct {
	coll    CollectionRef
	filters []filter
	orders  []order
	limit   int
}

// Where returns a copy of q with an extra filter.
func (q Query) Where(field string, op Op, value any) Query {
	q.filters = append(append([]filter(nil), q.filters...), filter{field: field, op: op, value: value})
	return q
}

// OrderBy returns a copy of q with an extra sort key.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.orders = append(append([]order(nil), q.orders...), order{field: field, dir: dir})
	return q
}

// Limit returns a copy of q returning at most n documents (n <= 0 means no limit).
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

// Collection returns the collection queried.
func (q Query) Collection() CollectionRef { return q.coll }

// jsonPath turns a dotted field into a JSON path, validating it first so it
// can be inlined into SQL.
func jsonPath(field string) (string, error) {
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return "$." + field, nil
}

// encodeValue converts a Go filter value into the form json_extract yields.
func encodeValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return caldate.FormatStamp(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return caldate.FormatStamp(*x)
	case bool:
		if x {
			return 1
		}
		return 0
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	}
	return v
}

// where compiles the WHERE clause and its arguments.
func (q Query) where() (string, []any, error) {
	if q.coll.name == "" {
		return "", nil, ErrInvalidCollection
	}
	clauses := []string{"collection = ?"}
	args := []any{q.coll.name}
	if q.coll.parent != "" {
		clauses = append(clauses, "parent = ?")
		args = append(args, q.coll.parent)
	}

	for _, f := range q.filters {
		path, err := jsonPath(f.field)
		if err != nil {
			return "", nil, err
		}
		val := encodeValue(f.value)
		switch f.op {
		case OpEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
			op := string(f.op)
			if f.op == OpEqual {
				op = "="
			}
			clauses = append(clauses, fmt.Sprintf("json_extract(data, '%s') %s ?", path, op))
			args = append(args, val)
		case OpNotEqual:
			clauses = append(clauses, fmt.Sprintf("json_extract(data, '%s') IS NOT ?", path))
			args = append(args, val)
		case OpArrayContains:
			clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(data, '%s') WHERE json_each.value = ?)", path))
			args = append(args, val)
		default:
			return "", nil, fmt.Errorf("%w: %q", ErrInvalidOperator, f.op)
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

// tail compiles ORDER BY and LIMIT.
func (q Query) tail() (string, error) {
	var b strings.Builder
	if len(q.orders) > 0 {
		parts := make([]string, 0, len(q.orders)+1)
		for _, o := range q.orders {
			path, err := jsonPath(o.field)
			if err != nil {
				return "", err
			}
			dir := "ASC"
			if o.dir == Desc {
				dir = "DESC"
			}
			parts = append(parts, fmt.Sprintf("json_extract(data, '%s') %s", path, dir))
		}
		parts = append(parts, "id ASC")
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	} else {
		b.WriteString(" ORDER BY created_at ASC, id ASC")
	}
	if q.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.limit)
	}
	return b.String(), nil
}
