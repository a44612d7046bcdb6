// Package output renders CLI results as Elisp plists or JSON. The plist form
// is the contract with the Emacs side; JSON is for everything else.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Format renders v in the requested format. Structs are normalized through
// their JSON representation first, so json tags decide the key names.
func Format(v any, useJSON, pretty bool) (string, error) {
	if useJSON {
		var data []byte
		var err error
		if pretty {
			data, err = json.MarshalIndent(v, "", "  ")
		} else {
			data, err = json.Marshal(v)
		}
		if err != nil {
			return "", fmt.Errorf("failed to encode json: %w", err)
		}
		return string(data), nil
	}

	norm, err := normalize(v)
	if err != nil {
		return "", err
	}
	if pretty {
		return toPlistPretty(norm, 0), nil
	}
	return toPlist(norm), nil
}

// normalize round-trips v through JSON so plist rendering only sees maps,
// slices, and scalars. Numbers stay json.Number to avoid float formatting of
// integer counts.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var norm any
	if err := dec.Decode(&norm); err != nil {
		return nil, fmt.Errorf("failed to normalize value: %w", err)
	}
	return norm, nil
}

// toPlist renders a normalized value on one line.
func toPlist(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "t"
		}
		return "nil"
	case json.Number:
		return val.String()
	case string:
		return quote(val)
	case map[string]any:
		if len(val) == 0 {
			return "()"
		}
		var parts []string
		for _, key := range sortedKeys(val) {
			parts = append(parts, ":"+kebabCase(key)+" "+toPlist(val[key]))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case []any:
		if len(val) == 0 {
			return "()"
		}
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = toPlist(item)
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return quote(fmt.Sprint(val))
	}
}

// toPlistPretty renders a normalized value with one key per line at the top
// levels, matching what an Emacs user reads in a buffer.
func toPlistPretty(v any, indent int) string {
	prefix := strings.Repeat(" ", indent)

	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			return "()"
		}
		var lines []string
		for _, key := range sortedKeys(val) {
			lines = append(lines, ":"+kebabCase(key)+" "+toPlistPretty(val[key], indent+1))
		}
		return "(" + strings.Join(lines, "\n"+prefix+" ") + ")"
	case []any:
		if len(val) == 0 {
			return "()"
		}
		// Lists of plists read better one entry per line.
		if _, ok := val[0].(map[string]any); ok {
			parts := make([]string, len(val))
			for i, item := range val {
				parts[i] = toPlistPretty(item, indent+1)
			}
			return "(" + strings.Join(parts, "\n"+prefix+" ") + ")"
		}
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = toPlistPretty(item, indent)
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return toPlist(v)
	}
}

func quote(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// kebabCase converts snake_case or camelCase to kebab-case, the Elisp keyword
// convention (gdoc_id -> gdoc-id, pendingComments -> pending-comments).
func kebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
