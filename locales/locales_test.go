package locales_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fileinput-locales/locales"
	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
)

func TestEmbeddedBundlesMatchSchema(t *testing.T) {
	t.Parallel()

	r, err := locales.NewRegistry()
	require.NoError(t, err)
	require.Equal(t, []string{"en", "ru", "ua", "uk"}, r.Codes())
	require.NoError(t, r.Validate())
}

func TestUkrainian(t *testing.T) {
	t.Parallel()

	r, err := locales.NewRegistry()
	require.NoError(t, err)

	uk, ok := r.Lookup("uk")
	require.True(t, ok)

	t.Run("file not found", func(t *testing.T) {
		t.Parallel()

		tmpl, ok := uk.Message("msgFileNotFound")
		require.True(t, ok)
		require.Equal(t, `Файл "{name}" не знайдено!`, tmpl)
		require.Equal(t, `Файл "a.png" не знайдено!`, locale.Format(tmpl, locale.M{"name": "a.png"}))
	})

	t.Run("selected count", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "Вибрано файлів: 5", uk.Format("msgSelected", locale.M{"n": 5}))
	})

	t.Run("nested group literal", func(t *testing.T) {
		t.Parallel()

		g, ok := uk.Group(locale.GroupAjaxOperations)
		require.True(t, ok)
		require.Equal(t, "видалити файл", g["deleteThumb"])
	})

	t.Run("legacy code shares the bundle", func(t *testing.T) {
		t.Parallel()

		ua, ok := r.Lookup("ua")
		require.True(t, ok)
		require.Same(t, uk, ua)
	})
}

func TestAliasIndependence(t *testing.T) {
	t.Parallel()

	r, err := locales.NewRegistry()
	require.NoError(t, err)

	ua := locale.NewBundle()
	ua.Messages["msgUploadAborted"] = "Выгрузка файла прервана"
	locale.Register(r, "ua", ua)

	gotUA, _ := r.Lookup("ua")
	gotUK, _ := r.Lookup("uk")
	require.NotSame(t, gotUA, gotUK)

	msgUA, _ := gotUA.Message("msgUploadAborted")
	msgUK, _ := gotUK.Message("msgUploadAborted")
	require.Equal(t, "Выгрузка файла прервана", msgUA)
	require.Equal(t, "Завантаження файлу перервано", msgUK)
}

func TestOverridesFollowedByAliases(t *testing.T) {
	t.Parallel()

	override := fstest.MapFS{
		"uk.yaml": {Data: []byte("msgNo: 'ні!'\n")},
	}

	r, err := locale.NewRegistry(
		locales.WithEmbedded(),
		locale.WithYAMLDir(override),
		locales.WithAliases(),
	)
	require.NoError(t, err)

	uk, _ := r.Lookup("uk")
	ua, _ := r.Lookup("ua")
	require.Same(t, uk, ua)
	require.Equal(t, "ні!", uk.Messages["msgNo"])
}

func TestWithOverrides(t *testing.T) {
	t.Parallel()

	uk, err := locale.ParseYAML([]byte("msgUploadAborted: 'перервано'\n"))
	require.NoError(t, err)
	ua, err := locale.ParseYAML([]byte("msgUploadAborted: 'скасовано'\n"))
	require.NoError(t, err)

	t.Run("alias follows overridden target", func(t *testing.T) {
		t.Parallel()

		r, err := locale.NewRegistry(
			locales.WithEmbedded(),
			locales.WithOverrides(map[string]*locale.Bundle{"uk": uk}),
		)
		require.NoError(t, err)

		got, _ := r.Lookup("ua")
		require.Same(t, uk, got)
	})

	t.Run("alias with its own bundle is kept", func(t *testing.T) {
		t.Parallel()

		r, err := locale.NewRegistry(
			locales.WithEmbedded(),
			locales.WithOverrides(map[string]*locale.Bundle{"uk": uk, "ua": ua}),
		)
		require.NoError(t, err)

		gotUA, _ := r.Lookup("ua")
		gotUK, _ := r.Lookup("uk")
		require.Same(t, ua, gotUA)
		require.Same(t, uk, gotUK)
		require.Equal(t, "скасовано", gotUA.Messages["msgUploadAborted"])
	})

	t.Run("nil overrides keep embedded aliases", func(t *testing.T) {
		t.Parallel()

		r, err := locale.NewRegistry(locales.WithEmbedded(), locales.WithOverrides(nil))
		require.NoError(t, err)

		gotUA, _ := r.Lookup("ua")
		gotUK, _ := r.Lookup("uk")
		require.Same(t, gotUK, gotUA)
	})
}

func TestRegisterAliases_MissingTarget(t *testing.T) {
	t.Parallel()

	r, err := locale.NewRegistry()
	require.NoError(t, err)
	require.ErrorIs(t, locales.RegisterAliases(r), locale.ErrNotFound)
}

func TestAliasOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, "uk", locales.AliasOf("ua"))
	require.Empty(t, locales.AliasOf("uk"))
}
