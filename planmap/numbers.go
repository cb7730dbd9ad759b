// Package planmap converts generation-service payloads and persistence rows
// into the canonical model. Mapping is total: malformed individual fields
// degrade to placeholders or absence, never to an error; only a missing
// top-level payload fails.
package planmap

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexFloat decodes a JSON number or a numeric string. Anything else, and any
// non-finite value, decodes to absent. Decoding never fails.
type flexFloat struct {
	val *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.set(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			f.set(n)
		}
	}
	return nil
}

func (f *flexFloat) set(n float64) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return
	}
	f.val = &n
}

// positive returns the value only when it is present and greater than zero.
// Zero and negative values count as absent to keep "unknown" distinct from
// "zero sets".
func (f flexFloat) positive() *float64 {
	if f.val == nil || *f.val <= 0 {
		return nil
	}
	return f.val
}

// positiveInt truncates a positive value to int, nil otherwise.
func (f flexFloat) positiveInt() *int {
	v := f.positive()
	if v == nil {
		return nil
	}
	n := int(*v)
	if n <= 0 {
		return nil
	}
	return &n
}

// flexString decodes a JSON string, number, or boolean into a trimmed string.
// Objects, arrays, and null decode to empty. Decoding never fails.
type flexString struct {
	val string
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.val = strings.TrimSpace(s)
		return nil
	}
	switch b[0] {
	case '{', '[':
		return nil
	}
	f.val = strings.TrimSpace(string(b))
	return nil
}

func (f flexString) or(fallback string) string {
	if f.val == "" {
		return fallback
	}
	return f.val
}
