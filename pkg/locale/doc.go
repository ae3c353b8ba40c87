// Package locale holds translation bundles for the bootstrap-fileinput upload
// widget and the registry the widget's consumers look them up in.
//
// A Bundle carries the unit label lists (sizeUnits, bitRateUnits), the scalar
// message templates (fileSingle, msgSizeTooLarge, ...) and the nested groups
// (msgFileTypes, ajaxOperations, fileActionSettings, previewZoomButtonTitles)
// of one locale. Templates contain {name} placeholder tokens and may embed a
// small amount of HTML markup that must reach the browser unchanged.
//
// # Registry
//
// The Registry is an explicit object, created once and passed to whoever needs
// it. Registration is an unconditional write; the last bundle registered under
// a code wins:
//
//	reg, err := locale.NewRegistry(
//		locale.WithLogger(log),
//		locale.WithYAMLDir(localesFS),
//	)
//
//	locale.Register(reg, "uk", bundle)
//	b, ok := reg.Lookup("uk")
//
// Bundles do not have to define every key. Registration logs schema issues as
// warnings but never fails; consumers call Resolve to obtain a copy completed
// from the default bundle:
//
//	b, err := reg.Resolve("uk", "en")
//
// # Placeholders
//
// Format substitutes tokens in a single pass and leaves markup, entities and
// unknown tokens untouched:
//
//	locale.Format("Вибрано файлів: {n}", locale.M{"n": 5})
//	// Вибрано файлів: 5
//
// # Validation
//
// Validate compares a bundle with a Schema and reports missing and unknown
// keys, unit lists of the wrong length, placeholder tokens a message does not
// support and markup outside the allowed element set.
//
// # Output
//
// EncodeJSON writes a bundle in the widget's object shape with keys in schema
// order, and WriteScript wraps it in the plugin script that assigns
// $.fn.fileinputLocales[code].
package locale
