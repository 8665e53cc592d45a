package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Category is a key of the aggregated result map
type Category string

const (
	CategoryPerson      Category = "person"
	CategoryAge         Category = "age"
	CategoryDate        Category = "date"
	CategoryEmail       Category = "email"
	CategoryPhone       Category = "phone"
	CategoryPostal      Category = "postal"
	CategoryStation     Category = "station"
	CategoryHospital    Category = "hospital"
	CategoryTouristSpot Category = "tourist_spot"
	CategoryPlace       Category = "place" // Place mentions the gazetteer could not resolve
)

// Bucket is an ordered list of values; its count is always the list length.
// It serializes as the two-element array [values, count].
type Bucket struct {
	values []any
}

// NewBucket creates a bucket holding values in order
func NewBucket(values ...any) Bucket {
	return Bucket{values: values}
}

// StringBucket creates a bucket of strings
func StringBucket(values []string) Bucket {
	b := Bucket{values: make([]any, len(values))}
	for i, v := range values {
		b.values[i] = v
	}
	return b
}

// DateBucket creates a bucket of normalized dates
func DateBucket(dates []NormalizedDate) Bucket {
	b := Bucket{values: make([]any, len(dates))}
	for i, d := range dates {
		b.values[i] = d
	}
	return b
}

// Count returns the number of values
func (b Bucket) Count() int {
	return len(b.values)
}

// Values returns a copy of the values
func (b Bucket) Values() []any {
	out := make([]any, len(b.values))
	copy(out, b.values)
	return out
}

// Strings returns the string values, rendering non-strings with their text form
func (b Bucket) Strings() []string {
	out := make([]string, 0, len(b.values))
	for _, v := range b.values {
		switch val := v.(type) {
		case string:
			out = append(out, val)
		case NormalizedDate:
			out = append(out, val.Original)
		default:
			out = append(out, fmt.Sprint(val))
		}
	}
	return out
}

// MarshalJSON encodes the bucket as [values, count]
func (b Bucket) MarshalJSON() ([]byte, error) {
	values := b.values
	if values == nil {
		values = []any{}
	}
	return json.Marshal([]any{values, len(values)})
}

// UnmarshalJSON decodes [values, count]; the count is recomputed from the values
func (b *Bucket) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode bucket: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("decode bucket: expected [values, count], got %d elements", len(raw))
	}
	var values []any
	if err := json.Unmarshal(raw[0], &values); err != nil {
		return fmt.Errorf("decode bucket values: %w", err)
	}
	b.values = values
	return nil
}

// Result is the sparse category map. Only non-empty categories are present.
type Result map[Category]Bucket

// Set stores a bucket, skipping empty ones so the map stays sparse
func (r Result) Set(category Category, bucket Bucket) {
	if bucket.Count() == 0 {
		return
	}
	r[category] = bucket
}

// Count returns the value count for category (0 if absent)
func (r Result) Count(category Category) int {
	if r == nil {
		return 0
	}
	return r[category].Count()
}

// Categories returns the present keys in sorted order
func (r Result) Categories() []Category {
	keys := make([]Category, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
