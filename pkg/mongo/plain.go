package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"MarketDash/pkg/extjson"
	"MarketDash/pkg/util"
)

// Plain converts driver values into plain Go values: documents become
// map[string]any, arrays []any, ObjectIDs hex strings and DateTimes
// time.Time. Decimal128 values are wrapped as {"$numberDecimal": "..."} so
// extjson can decode them without losing precision.
func Plain(v any) any {
	switch t := v.(type) {
	case primitive.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = Plain(e.Value)
		}
		return m
	case primitive.A:
		return plainSlice(t)
	case []any:
		return plainSlice(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case primitive.Decimal128:
		return map[string]any{extjson.KeyDecimal: t.String()}
	default:
		return v
	}
}

// PlainMap converts a decoded document.
func PlainMap(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	return plainMap(doc)
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Plain(v)
	}
	return out
}

func plainSlice(a []any) []any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = Plain(v)
	}
	return out
}

// IDString renders a document _id.
func IDString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return extjson.String(v)
	}
}

// Time reads a timestamp stored as a BSON date, an ISO string, or epoch
// seconds/millis. Unknown values yield the zero time.
func Time(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case primitive.DateTime:
		return t.Time().UTC()
	case string:
		if ts, ok := util.ParseTime(t); ok {
			return ts.UTC()
		}
		return time.Time{}
	case map[string]any:
		// relaxed extended JSON {"$date": ...}
		if d, ok := t["$date"]; ok {
			return Time(d)
		}
		return time.Time{}
	default:
		if f, ok := extjson.Lookup(v); ok && f > 0 {
			if f > 1e11 {
				return time.UnixMilli(int64(f)).UTC()
			}
			return time.Unix(int64(f), 0).UTC()
		}
		return time.Time{}
	}
}
