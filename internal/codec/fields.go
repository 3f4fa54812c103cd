package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// encodeValue converts a Go value to its stored representation for kind.
func encodeValue(kind Kind, v any) (any, error) {
	switch kind {
	case KindString:
		s, ok := stringOf(v)
		if !ok {
			return nil, typeErr(kind, v)
		}
		return s, nil

	case KindOptString:
		if isNil(v) {
			return nil, nil
		}
		if p, ok := v.(*string); ok {
			return *p, nil
		}
		s, ok := stringOf(v)
		if !ok {
			return nil, typeErr(kind, v)
		}
		if s == "" {
			return nil, nil
		}
		return s, nil

	case KindInt, KindOptInt:
		if isNil(v) {
			if kind == KindOptInt {
				return nil, nil
			}
			return nil, typeErr(kind, v)
		}
		rv := reflect.Indirect(reflect.ValueOf(v))
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return int(rv.Int()), nil
		}
		return nil, typeErr(kind, v)

	case KindFloat:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		}
		return nil, typeErr(kind, v)

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, typeErr(kind, v)
		}
		return b, nil

	case KindTime, KindOptTime:
		switch t := v.(type) {
		case time.Time:
			return formatTime(t), nil
		case *time.Time:
			if t == nil {
				if kind == KindOptTime {
					return nil, nil
				}
				return nil, typeErr(kind, v)
			}
			return formatTime(*t), nil
		case nil:
			if kind == KindOptTime {
				return nil, nil
			}
		}
		return nil, typeErr(kind, v)

	case KindStrings:
		rv := reflect.ValueOf(v)
		if v == nil || rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.String {
			return nil, typeErr(kind, v)
		}
		list := make([]string, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).String()
		}
		return marshalText(list)

	case KindInts:
		list, ok := v.([]int)
		if !ok {
			return nil, typeErr(kind, v)
		}
		if list == nil {
			list = []int{}
		}
		return marshalText(list)

	case KindTimes:
		list, ok := v.([]time.Time)
		if !ok {
			return nil, typeErr(kind, v)
		}
		out := make([]string, len(list))
		for i, t := range list {
			out[i] = formatTime(t)
		}
		return marshalText(out)

	case KindObject:
		return marshalText(v)
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

func typeErr(kind Kind, v any) error {
	return fmt.Errorf("%w: %T for %s", ErrFieldType, v, kind)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// stringOf accepts string and named string types such as models.Priority.
func stringOf(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func marshalText(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decoding helpers. Each returns the zero value when the stored value is
// absent or cannot be interpreted.

func decodeString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

func decodeInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func decodeFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f
	}
	return 0
}

// decodeBool accepts native booleans, 0/1 and their string forms.
func decodeBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1":
			return true
		}
		return false
	}
	n, ok := decodeInt(v)
	return ok && n != 0
}

func decodeTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// decodeText unmarshals a serialized list or object. Values that were stored
// natively rather than as text are accepted too.
func decodeText(v any, target any) bool {
	var raw []byte
	switch x := v.(type) {
	case nil:
		return false
	case string:
		if strings.TrimSpace(x) == "" {
			return false
		}
		raw = []byte(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return false
		}
		raw = b
	}
	return json.Unmarshal(raw, target) == nil
}

func decodeStrings(v any) []string {
	var out []string
	if !decodeText(v, &out) || out == nil {
		return []string{}
	}
	return out
}

func decodeInts(v any) []int {
	var out []int
	if !decodeText(v, &out) || out == nil {
		return []int{}
	}
	return out
}

func decodeTimes(v any) []time.Time {
	var raw []string
	if !decodeText(v, &raw) {
		return []time.Time{}
	}
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		if t, ok := decodeTime(s); ok {
			out = append(out, t)
		}
	}
	return out
}
