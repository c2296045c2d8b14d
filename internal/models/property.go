package models

import "strings"

// truthy lists the values that switch boolean-valued properties on.
var truthy = map[string]bool{
	"true":    true,
	"1":       true,
	"yes":     true,
	"on":      true,
	"enabled": true,
}

// Property is one key:: value annotation. Keys are stored trimmed and
// case-folded; values keep their original spelling.
type Property struct {
	Key   string
	Value string
}

// Bool reports whether the value is one of the recognized truthy spellings
// (true, 1, yes, on, enabled), case-insensitively.
func (p Property) Bool() bool {
	return truthy[strings.ToLower(strings.TrimSpace(p.Value))]
}

// List splits a comma-separated value into trimmed entries. Empty entries
// are dropped; duplicates are kept (deduplication is edge-level, not
// value-level).
func (p Property) List() []string {
	var out []string
	for _, part := range strings.Split(p.Value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Properties is the ordered list of annotations on a page or block. Order is
// source order; repeated keys are legal and every occurrence is retained.
type Properties []Property

// Last returns the final occurrence of key, which wins for attribute-setting
// reserved keys.
func (ps Properties) Last(key string) (Property, bool) {
	for i := len(ps) - 1; i >= 0; i-- {
		if ps[i].Key == key {
			return ps[i], true
		}
	}
	return Property{}, false
}

// Has reports whether any occurrence of key exists.
func (ps Properties) Has(key string) bool {
	_, ok := ps.Last(key)
	return ok
}
