package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NormalizeDocumentIDs turns any value into a clean list of unique document
// ids. Non-slices yield an empty list. Elements are coerced to numbers;
// anything non-numeric, non-finite or non-integral is dropped, and duplicates
// keep their first position. The result is never nil.
//
// The transform is idempotent: NormalizeDocumentIDs(NormalizeDocumentIDs(v))
// equals NormalizeDocumentIDs(v).
func NormalizeDocumentIDs(v any) []int64 {
	var elems []any
	switch list := v.(type) {
	case []int64:
		elems = make([]any, len(list))
		for i, x := range list {
			elems[i] = x
		}
	case []int:
		elems = make([]any, len(list))
		for i, x := range list {
			elems[i] = x
		}
	case []float64:
		elems = make([]any, len(list))
		for i, x := range list {
			elems[i] = x
		}
	case []string:
		elems = make([]any, len(list))
		for i, x := range list {
			elems[i] = x
		}
	case []any:
		elems = list
	default:
		return []int64{}
	}

	out := make([]int64, 0, len(elems))
	seen := make(map[int64]struct{}, len(elems))
	for _, e := range elems {
		id, ok := CoerceID(e)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CoerceID converts one JSON-ish value into an integral id: ints, integral finite
// floats, json.Number and numeric strings. Everything else reports false.
func CoerceID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float32:
		return floatID(float64(n))
	case float64:
		return floatID(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatID(f)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return floatID(f)
	default:
		return 0, false
	}
}

func floatID(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
