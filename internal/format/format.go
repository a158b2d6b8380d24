package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesteruh/sentry-mattermost/internal/event"
)

// DefaultTemplate is the message layout used when no custom format is
// configured. Placeholders are {name} with names drawn from the recognized
// event fields.
const DefaultTemplate = "#### {project_name} - {env}\n{tags}\n\n{culprit}\n[{title}]({link})"

// ErrUnknownField is returned by Render when a template references a
// placeholder outside the recognized field set. It signals a configuration
// error, not an event problem.
var ErrUnknownField = errors.New("unknown template field")

// Render substitutes {name} placeholders in template with values from fields.
// A recognized field with an empty value renders as the empty string. A
// placeholder naming a field not present in the mapping is an error. Brace
// sequences that don't form a {name} placeholder (unclosed braces, names with
// spaces or punctuation) pass through literally, so markdown and JSON
// fragments survive in templates.
func Render(template string, fields map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(template[i+1:], '}')
		if end < 0 {
			b.WriteByte(c)
			i++
			continue
		}
		name := template[i+1 : i+1+end]
		if !isFieldName(name) {
			b.WriteByte(c)
			i++
			continue
		}
		val, ok := fields[name]
		if !ok {
			return "", fmt.Errorf("%w: {%s}", ErrUnknownField, name)
		}
		b.WriteString(val)
		i += end + 2
	}
	return b.String(), nil
}

func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

// TagOptions controls how the {tags} field is rendered.
type TagOptions struct {
	// IncludeKeys renders "`key: value`" instead of "`value`".
	IncludeKeys bool
	// IncludedKeys, when non-empty, keeps only tags whose key is listed.
	IncludedKeys []string
	// ExcludedKeys removes tags whose key is listed.
	ExcludedKeys []string
}

// TagLine renders the event's tags as a single backtick-quoted, space-joined
// line, applying the include/exclude key filters. Key matching is
// case-insensitive.
func TagLine(tags []event.Tag, opts TagOptions) string {
	included := keySet(opts.IncludedKeys)
	excluded := keySet(opts.ExcludedKeys)

	var parts []string
	for _, t := range tags {
		key := strings.ToLower(strings.TrimSpace(t.Key))
		if len(included) > 0 && !included[key] {
			continue
		}
		if excluded[key] {
			continue
		}
		if opts.IncludeKeys {
			parts = append(parts, fmt.Sprintf("`%s: %s`", t.Key, t.Value))
		} else {
			parts = append(parts, fmt.Sprintf("`%s`", t.Value))
		}
	}
	return strings.Join(parts, " ")
}

// SplitTagKeys parses a comma-separated key list from config into normalised
// keys. Empty entries are dropped.
func SplitTagKeys(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(s, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func keySet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[strings.ToLower(strings.TrimSpace(k))] = true
	}
	return set
}
