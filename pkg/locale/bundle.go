package locale

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Bundle is the full set of translated strings and unit labels for one locale.
//
// A bundle need not populate every schema key: absent entries are resolved by
// the consumer, usually by merging with the default bundle (see Merge).
type Bundle struct {
	// SizeUnits are file size labels indexed by magnitude (B, KB, MB, ...).
	SizeUnits []string
	// BitRateUnits are transfer rate labels indexed by magnitude (B/s, KB/s, ...).
	BitRateUnits []string
	// Messages maps a message identifier to its template.
	Messages map[string]string
	// Groups maps a grouping name (e.g. "ajaxOperations") to its sub-key templates.
	Groups map[string]map[string]string
}

// NewBundle returns an empty bundle ready to be filled.
func NewBundle() *Bundle {
	return &Bundle{
		Messages: make(map[string]string),
		Groups:   make(map[string]map[string]string),
	}
}

// Message returns the template of a scalar message.
func (b *Bundle) Message(id string) (string, bool) {
	if b == nil {
		return "", false
	}
	v, ok := b.Messages[id]
	return v, ok
}

// Group returns the sub-key templates of a nested grouping.
func (b *Bundle) Group(name string) (map[string]string, bool) {
	if b == nil {
		return nil, false
	}
	g, ok := b.Groups[name]
	return g, ok
}

// Units returns a unit list by its schema key.
func (b *Bundle) Units(key string) ([]string, bool) {
	if b == nil {
		return nil, false
	}
	switch key {
	case KeySizeUnits:
		return b.SizeUnits, b.SizeUnits != nil
	case KeyBitRateUnits:
		return b.BitRateUnits, b.BitRateUnits != nil
	}
	return nil, false
}

// Text looks up a template by path. A path is either a message identifier
// ("msgSelected") or a group sub-key in dot notation ("ajaxOperations.deleteThumb").
func (b *Bundle) Text(path string) (string, bool) {
	group, key, nested := strings.Cut(path, ".")
	if !nested {
		return b.Message(path)
	}
	g, ok := b.Group(group)
	if !ok {
		return "", false
	}
	v, ok := g[key]
	return v, ok
}

// Format returns the template at path with placeholders substituted.
// Returns the path itself if no template exists.
func (b *Bundle) Format(path string, args M) string {
	tmpl, ok := b.Text(path)
	if !ok {
		return path
	}
	return Format(tmpl, args)
}

// SetUnits stores a unit list under its schema key.
func (b *Bundle) SetUnits(key string, units []string) error {
	switch key {
	case KeySizeUnits:
		b.SizeUnits = units
	case KeyBitRateUnits:
		b.BitRateUnits = units
	default:
		return fmt.Errorf("%w: %q is not a unit list", ErrInvalidValue, key)
	}
	return nil
}

// Clone returns a deep copy of the bundle.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	c := &Bundle{
		SizeUnits:    slices.Clone(b.SizeUnits),
		BitRateUnits: slices.Clone(b.BitRateUnits),
		Messages:     maps.Clone(b.Messages),
		Groups:       make(map[string]map[string]string, len(b.Groups)),
	}
	if c.Messages == nil {
		c.Messages = make(map[string]string)
	}
	for name, g := range b.Groups {
		c.Groups[name] = maps.Clone(g)
	}
	return c
}

// Merge returns a copy of b where every entry absent from b is taken from
// fallback. Neither input is modified. A nil fallback yields a plain copy.
func (b *Bundle) Merge(fallback *Bundle) *Bundle {
	out := b.Clone()
	if out == nil {
		out = NewBundle()
	}
	if fallback == nil {
		return out
	}

	if len(out.SizeUnits) == 0 {
		out.SizeUnits = slices.Clone(fallback.SizeUnits)
	}
	if len(out.BitRateUnits) == 0 {
		out.BitRateUnits = slices.Clone(fallback.BitRateUnits)
	}

	for id, tmpl := range fallback.Messages {
		if _, ok := out.Messages[id]; !ok {
			out.Messages[id] = tmpl
		}
	}

	for name, fg := range fallback.Groups {
		g, ok := out.Groups[name]
		if !ok || g == nil {
			out.Groups[name] = maps.Clone(fg)
			continue
		}
		for key, tmpl := range fg {
			if _, ok := g[key]; !ok {
				g[key] = tmpl
			}
		}
	}

	return out
}

// FromMap builds a bundle from decoded JSON or YAML data.
// Strings become messages, string lists become unit lists and string maps
// become groups. Any other value is rejected with ErrInvalidValue.
func FromMap(data map[string]any) (*Bundle, error) {
	b := NewBundle()

	for key, value := range data {
		switch v := value.(type) {
		case string:
			b.Messages[key] = v
		case []any:
			units, err := toStrings(key, v)
			if err != nil {
				return nil, err
			}
			if err := b.SetUnits(key, units); err != nil {
				return nil, err
			}
		case []string:
			if err := b.SetUnits(key, slices.Clone(v)); err != nil {
				return nil, err
			}
		case map[string]any:
			g := make(map[string]string, len(v))
			for sub, sv := range v {
				s, ok := sv.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s.%s must be a string, got %T", ErrInvalidValue, key, sub, sv)
				}
				g[sub] = s
			}
			b.Groups[key] = g
		case map[string]string:
			b.Groups[key] = maps.Clone(v)
		default:
			return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidValue, key, value)
		}
	}

	return b, nil
}

func toStrings(key string, values []any) ([]string, error) {
	out := make([]string, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string, got %T", ErrInvalidValue, key, i, v)
		}
		out = append(out, s)
	}
	return out, nil
}
