package locale

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// M holds placeholder values keyed by token name.
type M map[string]any

// Format replaces {name} tokens in the template with values from args.
// Tokens without a value, and everything that is not a token (punctuation,
// HTML markup, entities), are copied through unchanged. Substituted values
// are not scanned again.
//
// Example:
//
//	Format(`Файл "{name}" не знайдено!`, M{"name": "a.png"})
//	// Файл "a.png" не знайдено!
func Format(template string, args M) string {
	if len(args) == 0 || !strings.Contains(template, "{") {
		return template
	}
	return replaceTokens(template, func(name string) (string, bool) {
		v, ok := args[name]
		if !ok {
			return "", false
		}
		return fmt.Sprint(v), true
	})
}

var (
	valuePolicy     *bluemonday.Policy
	valuePolicyOnce sync.Once
)

// FormatSafe works like Format but strips markup from every value before it is
// substituted. Use it when values come from users (file names) and the result
// is inserted into HTML; markup that is part of the template itself is kept.
func FormatSafe(template string, args M) string {
	if len(args) == 0 {
		return template
	}
	valuePolicyOnce.Do(func() {
		valuePolicy = bluemonday.StrictPolicy()
	})
	return replaceTokens(template, func(name string) (string, bool) {
		v, ok := args[name]
		if !ok {
			return "", false
		}
		return valuePolicy.Sanitize(fmt.Sprint(v)), true
	})
}

// Placeholders returns the distinct token names used in a template in order
// of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]struct{})
	replaceTokens(template, func(name string) (string, bool) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return "", false
	})
	return names
}

// replaceTokens walks the template once and calls fn for every well-formed
// token. When fn reports false the token is written back verbatim.
func replaceTokens(template string, fn func(name string) (string, bool)) string {
	var sb strings.Builder
	sb.Grow(len(template))

	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:open])
		rest = rest[open:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			sb.WriteString(rest)
			break
		}

		name := rest[1:end]
		if !isIdentifier(name) {
			// Not a token: emit the brace and keep scanning after it, so
			// "{{name}}" still finds the inner token.
			sb.WriteByte('{')
			rest = rest[1:]
			continue
		}

		if v, ok := fn(name); ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(rest[:end+1])
		}
		rest = rest[end+1:]
	}

	return sb.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
