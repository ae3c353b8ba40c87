// Package locales ships the bundled bootstrap-fileinput translations and
// registers them into a locale.Registry.
package locales

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"slices"

	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
)

// Default is the code of the bundle every other bundle falls back to.
const Default = "en"

//go:embed data/*.yaml
var dataFS embed.FS

// FS returns the embedded bundle files, one {code}.yaml per locale.
func FS() fs.FS {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Aliases maps legacy codes to the code of the bundle they share.
// "ua" is what older pages pass to the widget for Ukrainian.
var Aliases = map[string]string{
	"ua": "uk",
}

// Register loads the embedded bundles and stores each of them in r, followed
// by one entry per alias pointing at the same *locale.Bundle as its target.
func Register(r *locale.Registry) error {
	bundles, err := locale.LoadYAML(FS())
	if err != nil {
		return fmt.Errorf("loading embedded locales: %w", err)
	}

	for _, code := range slices.Sorted(maps.Keys(bundles)) {
		locale.Register(r, code, bundles[code])
	}

	return RegisterAliases(r)
}

// RegisterAliases points every alias at the bundle currently registered for
// its target. Call it again after overriding a target bundle so the alias
// follows the override.
func RegisterAliases(r *locale.Registry) error {
	return registerAliases(r, nil)
}

// registerAliases skips aliases that have a bundle of their own in keep.
func registerAliases(r *locale.Registry, keep map[string]*locale.Bundle) error {
	for _, alias := range slices.Sorted(maps.Keys(Aliases)) {
		if _, ok := keep[alias]; ok {
			continue
		}
		target := Aliases[alias]
		b, ok := r.Lookup(target)
		if !ok {
			return fmt.Errorf("%w: alias %q points at unknown locale %q", locale.ErrNotFound, alias, target)
		}
		locale.Register(r, alias, b)
	}
	return nil
}

// WithEmbedded is a registry option that registers the embedded bundles.
func WithEmbedded() locale.RegistryOption {
	return func(r *locale.Registry) error {
		return Register(r)
	}
}

// WithAliases is a registry option that calls RegisterAliases.
func WithAliases() locale.RegistryOption {
	return RegisterAliases
}

// WithOverrides is a registry option that registers bundles over the ones
// already present, then re-points every alias that bundles does not define.
// An overridden target carries its aliases along, while an alias given its
// own bundle keeps it.
func WithOverrides(bundles map[string]*locale.Bundle) locale.RegistryOption {
	return func(r *locale.Registry) error {
		for _, code := range slices.Sorted(maps.Keys(bundles)) {
			locale.Register(r, code, bundles[code])
		}
		return registerAliases(r, bundles)
	}
}

// NewRegistry creates a registry holding the embedded bundles. Options run
// before the embedded bundles are registered.
func NewRegistry(opts ...locale.RegistryOption) (*locale.Registry, error) {
	return locale.NewRegistry(append(opts, WithEmbedded())...)
}

// AliasOf returns the target of an alias code, or "" if code is not an alias.
func AliasOf(code string) string {
	return Aliases[code]
}

