package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ReferenceKind string

const (
	ReferenceSkill    ReferenceKind = "skill"
	ReferenceIndustry ReferenceKind = "industry"
	ReferenceCountry  ReferenceKind = "country"
	ReferenceLanguage ReferenceKind = "language"
)

func (k ReferenceKind) Valid() bool {
	switch k {
	case ReferenceSkill, ReferenceIndustry, ReferenceCountry, ReferenceLanguage:
		return true
	}
	return false
}

// EntityReference is a read-only lookup row (skill, industry, country, language).
type EntityReference struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// SelectedRef is what a wizard form stores for a picked reference: the display
// object as the client sent it. The id is kept verbatim until resolution.
type SelectedRef struct {
	ID   NumberString `json:"id"`
	Name string       `json:"name" validate:"max=200"`
}

// NumberString holds a numeric form value that clients may send either as a
// JSON number or as a string. Parsing is left to the consumer.
type NumberString string

func (n *NumberString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberString(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*n = NumberString(data)
	default:
		return fmt.Errorf("expected a number or numeric string, got %s", string(data))
	}
	return nil
}

func (n NumberString) String() string {
	return strings.TrimSpace(string(n))
}

func (n NumberString) IsEmpty() bool {
	return n.String() == ""
}

// Float64 parses the value strictly: trailing garbage, NaN and infinities are rejected.
func (n NumberString) Float64() (float64, error) {
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %s", n.String())
	}
	return v, nil
}

// Int64 parses the value as an integer id. Integral floats such as "5.0" are accepted.
func (n NumberString) Int64() (int64, error) {
	s := n.String()
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	v, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
		return 0, fmt.Errorf("not an integer: %s", s)
	}
	return int64(v), nil
}

// PositiveAmount reports the parsed value and whether it is a positive number.
func (n NumberString) PositiveAmount() (float64, bool) {
	v, err := n.Float64()
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
