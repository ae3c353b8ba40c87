package locale

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// MarshalJSON encodes the bundle in the widget's object shape with keys in
// default schema order. Markup in templates is not HTML-escaped.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	return EncodeJSON(b, DefaultSchema())
}

// UnmarshalJSON decodes the widget's object shape.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromMap(raw)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}

// EncodeJSON encodes a bundle as a compact JSON object. Keys known to the
// schema come first in schema order, keys unknown to it follow sorted.
func EncodeJSON(b *Bundle, schema *Schema) ([]byte, error) {
	if schema == nil {
		schema = DefaultSchema()
	}
	if b == nil {
		b = NewBundle()
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeValue(&buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		return writeValue(&buf, value)
	}

	for _, key := range schema.Units() {
		if units, ok := b.Units(key); ok {
			if err := field(key, units); err != nil {
				return nil, err
			}
		}
	}

	messageKeys := make([]string, 0, len(b.Messages))
	for _, decl := range schema.Messages() {
		if _, ok := b.Messages[decl.Key]; ok {
			messageKeys = append(messageKeys, decl.Key)
		}
	}
	for _, key := range sortedKeys(b.Messages) {
		if _, ok := schema.Message(key); !ok {
			messageKeys = append(messageKeys, key)
		}
	}
	for _, key := range messageKeys {
		if err := field(key, b.Messages[key]); err != nil {
			return nil, err
		}
	}

	groupNames := make([]string, 0, len(b.Groups))
	for _, decl := range schema.Groups() {
		if _, ok := b.Groups[decl.Name]; ok {
			groupNames = append(groupNames, decl.Name)
		}
	}
	for _, name := range sortedKeys(b.Groups) {
		if _, ok := schema.Group(name); !ok {
			groupNames = append(groupNames, name)
		}
	}
	for _, name := range groupNames {
		if err := field(name, newOrderedGroup(b.Groups[name], schema, name)); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// orderedGroup is a group encoded with schema sub-key order.
type orderedGroup struct {
	values map[string]string
	keys   []string
}

func newOrderedGroup(values map[string]string, schema *Schema, name string) orderedGroup {
	decl, _ := schema.Group(name)
	keys := make([]string, 0, len(values))
	for _, k := range decl.Keys {
		if _, ok := values[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range sortedKeys(values) {
		if !slices.Contains(decl.Keys, k) {
			keys = append(keys, k)
		}
	}
	return orderedGroup{values: values, keys: keys}
}

func (g orderedGroup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range g.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeValue(&buf, g.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeValue appends the JSON encoding of v without HTML escaping.
func writeValue(buf *bytes.Buffer, v any) error {
	if g, ok := v.(orderedGroup); ok {
		data, err := g.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	}

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

const scriptHeader = `/*!
 * FileInput %s Translations
 *
 * This file must be loaded after 'fileinput.js'. Patterns in braces '{}', or
 * any HTML markup tags in the messages must not be converted or translated.
 *
 * NOTE: this file must be saved in UTF-8 encoding.
 */
(function (factory) {
    'use strict';
    if (typeof define === 'function' && define.amd) {
        define(['jquery'], factory);
    } else if (typeof module === 'object' && typeof module.exports === 'object') {
        factory(require('jquery'));
    } else {
        factory(window.jQuery);
    }
}(function ($) {
    "use strict";

    $.fn.fileinputLocales[%s] = `

const scriptFooter = `;
}));
`

// WriteScript writes the widget plugin script that registers b under code in
// $.fn.fileinputLocales. title is used in the banner comment only.
func WriteScript(w io.Writer, code, title string, b *Bundle, schema *Schema) error {
	obj, err := EncodeJSON(b, schema)
	if err != nil {
		return fmt.Errorf("encoding bundle %q: %w", code, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, obj, "    ", "    "); err != nil {
		return fmt.Errorf("indenting bundle %q: %w", code, err)
	}

	var quoted bytes.Buffer
	if err := writeValue(&quoted, code); err != nil {
		return err
	}

	if title == "" {
		title = code
	}
	if _, err := fmt.Fprintf(w, scriptHeader, title, quoted.String()); err != nil {
		return err
	}
	if _, err := w.Write(pretty.Bytes()); err != nil {
		return err
	}
	_, err = io.WriteString(w, scriptFooter)
	return err
}
