package index

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Document is the field mapping stored under a document key.
type Document map[string]string

// IndexedFields are the document fields whose tokens feed posting lists, in
// the order they are inspected.
var IndexedFields = []string{"name", "postcode", "city", "context"}

// Fields returns the non-housenumber fields sorted by name.
func (d Document) Fields() []string {
	fields := make([]string, 0, len(d))
	for field := range d {
		if IsHousenumberField(field) {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Housenumbers aggregates every h| sub-entry, keyed by the raw field name.
// It returns nil when the document has none.
func (d Document) Housenumbers() map[string]string {
	var out map[string]string
	for field, value := range d {
		if !IsHousenumberField(field) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[field] = value
	}
	return out
}

// Coordinates parses the lat and lon fields.
func (d Document) Coordinates() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(d["lat"], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing lat %q: %w", d["lat"], err)
	}
	lon, err = strconv.ParseFloat(d["lon"], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing lon %q: %w", d["lon"], err)
	}
	return lat, lon, nil
}

// Label is the human-readable line for a document: its name followed by
// postcode and city when they add information.
func (d Document) Label() string {
	parts := make([]string, 0, 3)
	name := d["name"]
	if name != "" {
		parts = append(parts, name)
	}
	if pc := d["postcode"]; pc != "" {
		parts = append(parts, pc)
	}
	if city := d["city"]; city != "" && city != name {
		parts = append(parts, city)
	}
	return strings.Join(parts, " ")
}

// Result is a document projected for display with its computed relevance.
// Distance is only set by reverse geocoding.
type Result struct {
	Key        string
	ID         string
	Label      string
	Lat        float64
	Lon        float64
	Importance float64
	Score      float64
	Distance   float64
	Fields     Document
}

// NewResult builds a Result from the document stored under key.
// Coordinates and importance are parsed leniently: a missing value leaves
// the zero value in place.
func NewResult(key string, doc Document) *Result {
	r := &Result{
		Key:    key,
		ID:     doc["id"],
		Label:  doc.Label(),
		Fields: doc,
	}
	if r.ID == "" {
		r.ID = KeySuffix(key)
	}
	if lat, lon, err := doc.Coordinates(); err == nil {
		r.Lat, r.Lon = lat, lon
	}
	if imp, err := strconv.ParseFloat(doc["importance"], 64); err == nil {
		r.Importance = imp
	}
	return r
}

func (r *Result) String() string {
	return r.Label
}
