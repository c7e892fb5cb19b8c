// Package frontmatter reads and writes the on-disk record format: a block of
// `key: value` lines fenced by `---` lines, a blank line, then a free-form
// markdown body.
//
//	---
//	title: "Hello World"
//	featured: false
//	tags: ["go","cms"]
//	---
//
//	Body text
//
// The format is deliberately line based. Strings are double-quoted without
// escaping, so a value cannot span lines; Serialize flattens newlines to
// spaces to keep that invariant.
package frontmatter

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const delimiter = "---"

// ErrNoFrontMatter is returned by Parse when the text does not open with a
// fenced metadata block. Callers treat it as corrupt data, not absence.
var ErrNoFrontMatter = errors.New("front matter block not found")

// Field is one metadata line. Value is a string, bool or []string.
type Field struct {
	Key   string
	Value any
}

// Metadata keeps fields in insertion order so files serialize stably.
type Metadata []Field

// Set replaces the value of key in place, or appends it.
func (m *Metadata) Set(key string, value any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Field{Key: key, Value: value})
}

// Get returns the raw value of key.
func (m Metadata) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns key rendered as a string; booleans come back as
// "true"/"false" since Parse coerces those tokens regardless of quoting.
func (m Metadata) String(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case []string:
		return strings.Join(value, ",")
	default:
		return ""
	}
}

// Bool reports whether key holds true. A string "true" also counts.
func (m Metadata) Bool(key string) bool {
	v, ok := m.Get(key)
	if !ok {
		return false
	}
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return value == "true"
	default:
		return false
	}
}

// Strings returns key as a string slice, or nil when absent or not a list.
func (m Metadata) Strings(key string) []string {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	if value, ok := v.([]string); ok {
		return value
	}
	return nil
}

// Serialize renders meta and body in the on-disk format.
func Serialize(meta Metadata, body string) string {
	var b strings.Builder

	b.WriteString(delimiter)
	b.WriteByte('\n')
	for _, f := range meta {
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(encodeValue(f.Value))
		b.WriteByte('\n')
	}
	b.WriteString(delimiter)
	b.WriteString("\n\n")
	b.WriteString(body)

	return b.String()
}

// Parse splits text into metadata and body. It fails only when the fenced
// block is missing; malformed lines inside the block are skipped.
func Parse(text string) (Metadata, string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	rest, ok := strings.CutPrefix(text, delimiter+"\n")
	if !ok {
		return nil, "", ErrNoFrontMatter
	}

	var block, body string
	switch {
	case strings.HasPrefix(rest, delimiter+"\n") || rest == delimiter:
		block, body = "", strings.TrimPrefix(rest, delimiter)
	default:
		idx := strings.Index(rest, "\n"+delimiter+"\n")
		if idx < 0 {
			if !strings.HasSuffix(rest, "\n"+delimiter) {
				return nil, "", ErrNoFrontMatter
			}
			idx = len(rest) - len(delimiter) - 1
		}
		block = rest[:idx]
		body = rest[idx+1+len(delimiter):]
	}

	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	meta := Metadata{}
	for _, line := range strings.Split(block, "\n") {
		key, raw, found := strings.Cut(line, ": ")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		meta.Set(key, decodeValue(raw))
	}

	return meta, body, nil
}

func encodeValue(v any) string {
	switch value := v.(type) {
	case bool:
		return strconv.FormatBool(value)
	case []string:
		if value == nil {
			value = []string{}
		}
		b, err := json.Marshal(value)
		if err != nil {
			return "[]"
		}
		return string(b)
	case string:
		return `"` + flatten(value) + `"`
	default:
		return `""`
	}
}

func decodeValue(raw string) any {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		raw = raw[1 : len(raw)-1]
	}

	switch raw {
	case "true":
		return true
	case "false":
		return false
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			if list == nil {
				list = []string{}
			}
			return list
		}
	}

	return raw
}

func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
