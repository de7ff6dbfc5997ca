package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

// Key identifies a cached value. Components are primitives (strings,
// numbers, bools, times, dates or nil); two keys are equal when their
// canonical encodings are.
type Key []any

func K(parts ...any) Key {
	return Key(parts)
}

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, c := range k {
		parts[i] = encode(c)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// HasPrefix reports whether the first len(prefix) components of k equal
// prefix. The empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if encode(k[i]) != encode(prefix[i]) {
			return false
		}
	}
	return true
}

func encode(c any) string {
	switch v := c.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return "t:" + v.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return "null"
		}
		return "t:" + v.UTC().Format(time.RFC3339Nano)
	case date.Date:
		return "d:" + v.String()
	case *date.Date:
		if v == nil {
			return "null"
		}
		return "d:" + v.String()
	case fmt.Stringer:
		return strconv.Quote(v.String())
	default:
		return fmt.Sprintf("%#v", v)
	}
}
