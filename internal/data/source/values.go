package source

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/fundgraph/internal/domain"
)

// Row is one relational row keyed by column name.
type Row map[string]any

// rowReader converts raw column values into typed fields and remembers the first failure,
// so a mapper can read every column and check the error once.
type rowReader struct {
	table string
	row   Row
	err   error
}

func (r *rowReader) fail(col, format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%s.%s: %s", r.table, col, fmt.Sprintf(format, args...))
	}
}

// required returns a non-empty string column.
func (r *rowReader) required(col string) string {
	raw, present := r.row[col]
	if !present {
		r.fail(col, "column missing")
		return ""
	}
	s, ok := asString(raw)
	if !ok || strings.TrimSpace(s) == "" {
		r.fail(col, "value required")
		return ""
	}
	return s
}

func (r *rowReader) optString(col string) *string {
	s, ok := asString(r.row[col])
	if !ok {
		return nil
	}
	return &s
}

// text is like optString but maps NULL to the empty string.
func (r *rowReader) text(col string) string {
	s, _ := asString(r.row[col])
	return s
}

func (r *rowReader) optBool(col string) *bool {
	switch v := r.row[col].(type) {
	case nil:
		return nil
	case bool:
		return &v
	default:
		s, ok := asString(v)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			r.fail(col, "invalid bool %q", s)
			return nil
		}
		return &b
	}
}

func (r *rowReader) timestamp(col string) time.Time {
	switch v := r.row[col].(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return v.UTC()
	default:
		s, ok := asString(v)
		if !ok || s == "" {
			return time.Time{}
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07", "2006-01-02 15:04:05", domain.DateLayout} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
		r.fail(col, "invalid timestamp %q", s)
		return time.Time{}
	}
}

func (r *rowReader) date(col string) domain.Date {
	switch v := r.row[col].(type) {
	case time.Time:
		return domain.NewDate(v)
	default:
		s := r.required(col)
		if s == "" {
			return domain.Date{}
		}
		d, err := domain.ParseDate(s)
		if err != nil {
			r.fail(col, "%v", err)
		}
		return d
	}
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case [16]byte:
		return uuid.UUID(t).String(), true
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return "", false
		}
		return asString(dv)
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
