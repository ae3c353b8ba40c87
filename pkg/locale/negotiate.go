package locale

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Matcher picks the best registered locale code for a user's preferences.
// The first code passed to NewMatcher is the default.
type Matcher struct {
	matcher language.Matcher
	codes   []string
	tagged  []string
	aliases map[string]string
	lower   map[string]string
}

// NewMatcher builds a matcher over the given codes. Codes that are not valid
// BCP 47 tags (such as the legacy "ua") can still be chosen by exact name or
// through aliases, which map an alias code to the code it stands for.
func NewMatcher(codes []string, aliases map[string]string) *Matcher {
	m := &Matcher{
		codes:   codes,
		aliases: make(map[string]string, len(aliases)),
		lower:   make(map[string]string, len(codes)),
	}

	for alias, target := range aliases {
		m.aliases[strings.ToLower(alias)] = target
	}

	var tags []language.Tag
	for _, code := range codes {
		m.lower[strings.ToLower(code)] = code
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		m.tagged = append(m.tagged, code)
	}

	if len(tags) > 0 {
		m.matcher = language.NewMatcher(tags)
	}

	return m
}

// Default returns the default code, or "" if the matcher has no codes.
func (m *Matcher) Default() string {
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[0]
}

// Match returns the best code for the candidates, tried in order. A candidate
// is either an explicit code ("uk", "ua") or an Accept-Language header value
// ("uk-UA,uk;q=0.9,en;q=0.8"). The first candidate that resolves wins, so a
// query value beats a cookie, which beats the header. Within a candidate an
// exact code beats language matching. When nothing matches the default code
// is returned.
func (m *Matcher) Match(candidates ...string) string {
	for _, c := range candidates {
		if code, ok := m.exact(c); ok {
			return code
		}
		if code, ok := m.negotiate(c); ok {
			return code
		}
	}
	return m.Default()
}

// negotiate matches one Accept-Language value against the tagged codes.
func (m *Matcher) negotiate(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if m.matcher == nil || candidate == "" {
		return "", false
	}

	tags, _, err := language.ParseAcceptLanguage(m.rewriteAliases(candidate))
	if err != nil || len(tags) == 0 {
		return "", false
	}

	_, idx, conf := m.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(m.tagged) {
		return "", false
	}
	return m.tagged[idx], true
}

func (m *Matcher) exact(candidate string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(candidate))
	if key == "" {
		return "", false
	}
	if code, ok := m.lower[key]; ok {
		return code, true
	}
	if target, ok := m.aliases[key]; ok {
		if code, ok := m.lower[strings.ToLower(target)]; ok {
			return code, true
		}
	}
	return "", false
}

// rewriteAliases replaces alias primary subtags in an Accept-Language value,
// e.g. "ua-UA;q=0.9" becomes "uk-UA;q=0.9" for the alias ua -> uk.
func (m *Matcher) rewriteAliases(header string) string {
	if len(m.aliases) == 0 {
		return header
	}
	parts := strings.Split(header, ",")
	for i, part := range parts {
		lang, params, hasParams := strings.Cut(part, ";")
		lang = strings.TrimSpace(lang)
		base, region, hasRegion := strings.Cut(lang, "-")
		target, ok := m.aliases[strings.ToLower(base)]
		if !ok {
			continue
		}
		lang = target
		if hasRegion {
			lang += "-" + region
		}
		if hasParams {
			lang += ";" + params
		}
		parts[i] = lang
	}
	return strings.Join(parts, ",")
}

// DisplayName returns the name of a locale in its own language, e.g.
// "українська" for "uk". Aliases are resolved first. Returns "" for codes
// that are not valid language tags.
func DisplayName(code string, aliases map[string]string) string {
	if target, ok := aliases[code]; ok {
		code = target
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.Self.Name(tag)
}
