// Package engine renders email templates containing {{placeholder}}
// tokens and reports which placeholders remain unfilled.
//
// Rendering is total: malformed templates, unknown filters, missing
// values and unparseable dates all degrade to best-effort output
// instead of failing, because the preview surface must keep showing
// something while the user is mid-edit.
package engine

import (
	"regexp"
	"strings"
)

// tokenPattern matches one placeholder: {{ key }} or {{ key|filter }}.
// Keys are [A-Za-z0-9_]+, filters [A-Za-z]+, both case-insensitive.
var tokenPattern = regexp.MustCompile(`(?i)\{\{\s*([a-z0-9_]+)(?:\|([a-z]+))?\s*\}\}`)

// datePrefix marks keys whose values receive filter-aware date
// formatting. All other keys are plain substitution.
const datePrefix = "date_"

// ReservedKeys lists the placeholder keys the editing surface offers
// in its quick-test form.
var ReservedKeys = []string{
	"first_name",
	"spoke_to",
	"company_name",
	"competitor",
	"date_1",
	"date_2",
}

// Render substitutes every placeholder token in text with its value
// from data. Missing or empty values substitute the empty string,
// never the literal token. The scan is global, non-overlapping and
// left-to-right; the output is not re-expanded.
func Render(text string, data map[string]string) string {
	if text == "" {
		return ""
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := tokenPattern.FindStringSubmatch(token)
		key, filterName := m[1], m[2]

		value := lookup(data, key)
		if value == "" {
			return ""
		}
		if !strings.HasPrefix(strings.ToLower(key), datePrefix) {
			// Filters only apply to date_ keys.
			return value
		}
		formatted, _ := FormatDate(value, ParseFilter(filterName))
		return formatted
	})
}

// MissingFields returns the distinct placeholder keys in text whose
// value in data is absent or trims to empty. Keys are reported
// lowercased, in order of first appearance, with the filter suffix
// ignored ({{date_1|longdate}} and {{date_1|shortdate}} are one key).
func MissingFields(text string, data map[string]string) []string {
	missing := make([]string, 0)
	seen := make(map[string]struct{})
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(m[1])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if strings.TrimSpace(lookup(data, m[1])) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// lookup tries the key as written, then lowercased, so token matching
// stays case-insensitive against lowercase field maps.
func lookup(data map[string]string, key string) string {
	if value, ok := data[key]; ok {
		return value
	}
	return data[strings.ToLower(key)]
}
