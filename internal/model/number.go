package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric is a float parsed from a loosely typed remote field. A malformed or missing
// value is NaN and encodes as JSON null.
type Numeric float64

func NaN() Numeric { return Numeric(math.NaN()) }

func (n Numeric) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

func (n *Numeric) UnmarshalJSON(data []byte) error {
	*n = ParseNumeric(data)
	return nil
}

// ParseNumeric accepts a JSON number or a JSON string holding a number.
func ParseNumeric(raw json.RawMessage) Numeric {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return NaN()
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return NaN()
		}
		return Numeric(f)
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return NaN()
	}
	return Numeric(f)
}
