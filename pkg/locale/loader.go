package locale

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithYAMLDir returns an Option that registers every YAML bundle in fsys.
// File convention: {code}.yaml or {code}.yml
//
// Example structure:
//
//	en.yaml
//	uk.yaml
func WithYAMLDir(fsys fs.FS) RegistryOption {
	return func(r *Registry) error {
		bundles, err := LoadYAML(fsys)
		if err != nil {
			return err
		}
		registerSorted(r, bundles)
		return nil
	}
}

// WithJSONDir returns an Option that registers every JSON bundle in fsys.
// File convention: {code}.json
func WithJSONDir(fsys fs.FS) RegistryOption {
	return func(r *Registry) error {
		bundles, err := LoadJSON(fsys)
		if err != nil {
			return err
		}
		registerSorted(r, bundles)
		return nil
	}
}

// LoadYAML decodes every .yaml/.yml file in fsys into a bundle keyed by the
// file name without extension.
func LoadYAML(fsys fs.FS) (map[string]*Bundle, error) {
	return loadDir(fsys, ".yaml", func(data []byte, v any) error {
		return yaml.Unmarshal(data, v)
	})
}

// LoadJSON decodes every .json file in fsys into a bundle keyed by the file
// name without extension.
func LoadJSON(fsys fs.FS) (map[string]*Bundle, error) {
	return loadDir(fsys, ".json", func(data []byte, v any) error {
		return json.Unmarshal(data, v)
	})
}

// ParseYAML decodes a single YAML document into a bundle.
func ParseYAML(data []byte) (*Bundle, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, err)
	}
	return FromMap(raw)
}

func loadDir(fsys fs.FS, ext string, unmarshal func([]byte, any) error) (map[string]*Bundle, error) {
	bundles := make(map[string]*Bundle)

	err := fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		fileExt := strings.ToLower(path.Ext(filePath))
		var matches bool
		if ext == ".yaml" {
			matches = fileExt == ".yaml" || fileExt == ".yml"
		} else {
			matches = fileExt == ext
		}
		if !matches {
			return nil
		}

		code := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
		if code == "" {
			return fmt.Errorf("%w: %q has no locale code", ErrInvalidFile, filePath)
		}
		if _, dup := bundles[code]; dup {
			return fmt.Errorf("%w: locale %q defined more than once (%q)", ErrInvalidFile, code, filePath)
		}

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return fmt.Errorf("reading %q: %w", filePath, err)
		}

		var raw map[string]any
		if err := unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, filePath, err)
		}

		b, err := FromMap(raw)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidFile, filePath, err)
		}
		bundles[code] = b

		return nil
	})
	if err != nil {
		return nil, err
	}

	return bundles, nil
}

func registerSorted(r *Registry, bundles map[string]*Bundle) {
	for _, code := range sortedKeys(bundles) {
		r.Register(code, bundles[code])
	}
}
