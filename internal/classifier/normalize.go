// Package classifier enriches incoming transaction messages: numeric leaves
// are normalized to exact decimals, a value-band category is assigned, and a
// processing timestamp is stamped before the record is persisted.
package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DecodeRecord parses a JSON message body into a record whose numeric leaves
// are exact: integer-form numbers become int64, fractional or exponent-form
// numbers become decimal.Decimal built from the literal text. This avoids the
// binary float rounding a plain json.Unmarshal would introduce.
func DecodeRecord(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding message body: %w", err)
	}

	normalized, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	return normalized.(map[string]any), nil
}

// normalize walks the decoded tree (object | array | string | number | bool |
// null) and rewrites every json.Number leaf.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			norm, err := normalize(elem)
			if err != nil {
				return nil, err
			}
			val[k] = norm
		}
		return val, nil
	case []any:
		for i, elem := range val {
			norm, err := normalize(elem)
			if err != nil {
				return nil, err
			}
			val[i] = norm
		}
		return val, nil
	case json.Number:
		return normalizeNumber(val)
	default:
		return v, nil
	}
}

func normalizeNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		// Wider than int64: keep exact via decimal.
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("normalizing number %q: %w", s, err)
	}
	return d, nil
}
