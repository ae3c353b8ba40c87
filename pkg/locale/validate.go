package locale

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// IssueKind classifies a schema validation finding.
type IssueKind string

const (
	IssueMissing     IssueKind = "missing"
	IssueUnknown     IssueKind = "unknown"
	IssueUnitCount   IssueKind = "unit_count"
	IssuePlaceholder IssueKind = "placeholder"
	IssueMarkup      IssueKind = "markup"
)

// Issue is a single validation finding for one key of one bundle.
type Issue struct {
	Code   string    `json:"code"`
	Key    string    `json:"key"`
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

func (i Issue) String() string {
	s := i.Code + ": " + i.Key + ": " + string(i.Kind)
	if i.Detail != "" {
		s += " (" + i.Detail + ")"
	}
	return s
}

// ValidationError reports every issue found in one or more bundles.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "locale: " + e.Issues[0].String()
	}
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		lines = append(lines, is.String())
	}
	return fmt.Sprintf("locale: %d validation issues:\n%s", len(e.Issues), strings.Join(lines, "\n"))
}

// Check validates a bundle and returns a *ValidationError if any issue was found.
func Check(code string, b *Bundle, schema *Schema) error {
	if issues := Validate(code, b, schema); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

var tagPattern = regexp.MustCompile(`<\s*/?\s*([a-zA-Z][a-zA-Z0-9]*)`)

// Validate compares a bundle with the schema. It never fails: every finding
// is returned as an Issue, ordered by key within each kind of check.
// An empty template counts as present.
func Validate(code string, b *Bundle, schema *Schema) []Issue {
	if schema == nil {
		schema = DefaultSchema()
	}
	if b == nil {
		b = NewBundle()
	}

	var issues []Issue
	add := func(key string, kind IssueKind, detail string) {
		issues = append(issues, Issue{Code: code, Key: key, Kind: kind, Detail: detail})
	}

	for _, key := range schema.Units() {
		units, ok := b.Units(key)
		switch {
		case !ok || len(units) == 0:
			add(key, IssueMissing, "")
		case schema.UnitCount() > 0 && len(units) != schema.UnitCount():
			add(key, IssueUnitCount, fmt.Sprintf("want %d labels, got %d", schema.UnitCount(), len(units)))
		}
	}

	for _, decl := range schema.Messages() {
		tmpl, ok := b.Messages[decl.Key]
		if !ok {
			add(decl.Key, IssueMissing, "")
			continue
		}
		checkTemplate(decl.Key, tmpl, decl.Placeholders, schema, add)
	}

	for _, key := range sortedKeys(b.Messages) {
		if _, ok := schema.Message(key); !ok {
			add(key, IssueUnknown, "")
		}
	}

	for _, decl := range schema.Groups() {
		g, ok := b.Groups[decl.Name]
		if !ok {
			add(decl.Name, IssueMissing, "")
			continue
		}
		for _, key := range decl.Keys {
			path := decl.Name + "." + key
			tmpl, ok := g[key]
			if !ok {
				add(path, IssueMissing, "")
				continue
			}
			checkTemplate(path, tmpl, nil, schema, add)
		}
		for _, key := range sortedKeys(g) {
			if !slices.Contains(decl.Keys, key) {
				add(decl.Name+"."+key, IssueUnknown, "")
			}
		}
	}

	for _, name := range sortedKeys(b.Groups) {
		if _, ok := schema.Group(name); !ok {
			add(name, IssueUnknown, "")
		}
	}

	return issues
}

func checkTemplate(key, tmpl string, allowed []string, schema *Schema, add func(string, IssueKind, string)) {
	for _, name := range Placeholders(tmpl) {
		if !slices.Contains(allowed, name) {
			add(key, IssuePlaceholder, "{"+name+"}")
		}
	}
	for _, m := range tagPattern.FindAllStringSubmatch(tmpl, -1) {
		tag := strings.ToLower(m[1])
		if !slices.Contains(schema.AllowedMarkup(), tag) {
			add(key, IssueMarkup, "<"+tag+">")
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
