package repository

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"
)

// TimeLayout is the fixed-width UTC layout used for time filter values and
// stored timestamps, so that lexical order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Op is a filter comparison.
type Op string

// Filter comparisons.
const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Valid reports whether o is a known comparison.
func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Filter restricts rows to those whose Column compares to Value by Op.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Order sorts rows by Column.
type Order struct {
	Column    string
	Ascending bool
}

// Query selects rows from one table. The zero Limit means no limit.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Order   []Order
	Limit   int
}

// From starts a query on table.
func From(table string) Query {
	return Query{Table: table}
}

// Select restricts the returned columns.
func (q Query) Select(columns ...string) Query {
	q.Columns = append(q.Columns[:len(q.Columns):len(q.Columns)], columns...)
	return q
}

// Where adds a filter.
func (q Query) Where(column string, op Op, value any) Query {
	q.Filters = append(q.Filters[:len(q.Filters):len(q.Filters)], Filter{Column: column, Op: op, Value: value})
	return q
}

// Eq filters on equality.
func (q Query) Eq(column string, value any) Query { return q.Where(column, OpEq, value) }

// Neq filters on inequality.
func (q Query) Neq(column string, value any) Query { return q.Where(column, OpNeq, value) }

// Gte keeps rows whose column is at least value.
func (q Query) Gte(column string, value any) Query { return q.Where(column, OpGte, value) }

// Lte keeps rows whose column is at most value.
func (q Query) Lte(column string, value any) Query { return q.Where(column, OpLte, value) }

// OrderBy appends a sort key.
func (q Query) OrderBy(column string, ascending bool) Query {
	q.Order = append(q.Order[:len(q.Order):len(q.Order)], Order{Column: column, Ascending: ascending})
	return q
}

// WithLimit caps the number of rows.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks identifiers, comparisons and the limit.
func (q Query) Validate() error {
	if !identRe.MatchString(q.Table) {
		return fmt.Errorf("%w: table %q", ErrInvalidQuery, q.Table)
	}
	for _, c := range q.Columns {
		if !identRe.MatchString(c) {
			return fmt.Errorf("%w: column %q", ErrInvalidQuery, c)
		}
	}
	for _, f := range q.Filters {
		if !identRe.MatchString(f.Column) {
			return fmt.Errorf("%w: filter column %q", ErrInvalidQuery, f.Column)
		}
		if !f.Op.Valid() {
			return fmt.Errorf("%w: operator %q", ErrInvalidQuery, f.Op)
		}
	}
	for _, o := range q.Order {
		if !identRe.MatchString(o.Column) {
			return fmt.Errorf("%w: order column %q", ErrInvalidQuery, o.Column)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidQuery, q.Limit)
	}
	return nil
}

// FormatValue renders a filter value as text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		return x.UTC().Format(TimeLayout)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

// BindValue converts a filter value into a SQL driver argument.
func BindValue(v any) any {
	switch x := v.(type) {
	case nil, string, int, int64, float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case time.Time:
		return x.UTC().Format(TimeLayout)
	}
	return FormatValue(v)
}
