package server

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/fileinput-locales/pkg/health"
	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
)

// LocalesCheck reports unready until the default locale is registered,
// since every other bundle is completed from it.
func LocalesCheck(reg *locale.Registry, defaultCode string) health.CheckFunc {
	return func(context.Context) error {
		if _, ok := reg.Lookup(defaultCode); !ok {
			return fmt.Errorf("%w: default locale %q is not registered", ErrUnknownLocale, defaultCode)
		}
		return nil
	}
}
