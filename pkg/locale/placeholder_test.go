package locale_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		args     locale.M
		want     string
	}{
		{
			name:     "substitutes name",
			template: `Файл "{name}" не знайдено!`,
			args:     locale.M{"name": "a.png"},
			want:     `Файл "a.png" не знайдено!`,
		},
		{
			name:     "substitutes integers",
			template: "Вибрано файлів: {n}",
			args:     locale.M{"n": 5},
			want:     "Вибрано файлів: 5",
		},
		{
			name:     "keeps markup around tokens",
			template: "Файл \"{name}\" (<b>{size}</b>) перевищує <b>{maxSize}</b>.",
			args:     locale.M{"name": "a.png", "size": "12 MB", "maxSize": "10 MB"},
			want:     "Файл \"a.png\" (<b>12 MB</b>) перевищує <b>10 MB</b>.",
		},
		{
			name:     "leaves unknown tokens",
			template: "{n} of {m}",
			args:     locale.M{"n": 1},
			want:     "1 of {m}",
		},
		{
			name:     "does not rescan substituted values",
			template: "{a}",
			args:     locale.M{"a": "{b}", "b": "x"},
			want:     "{b}",
		},
		{
			name:     "same token twice",
			template: "{n}/{n}",
			args:     locale.M{"n": 3},
			want:     "3/3",
		},
		{
			name:     "nested braces keep outer pair",
			template: "{{name}}",
			args:     locale.M{"name": "x"},
			want:     "{x}",
		},
		{
			name:     "spaces are not tokens",
			template: "{ name }",
			args:     locale.M{"name": "x"},
			want:     "{ name }",
		},
		{
			name:     "unterminated brace",
			template: "{name",
			args:     locale.M{"name": "x"},
			want:     "{name",
		},
		{
			name:     "entities pass through",
			template: "Вибрати &hellip; {percent}%",
			args:     locale.M{"percent": 50},
			want:     "Вибрати &hellip; 50%",
		},
		{
			name:     "no args",
			template: "Завантаження {name}",
			want:     "Завантаження {name}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, locale.Format(tt.template, tt.args))
		})
	}
}

func TestFormatSafe(t *testing.T) {
	t.Parallel()

	t.Run("strips markup from values", func(t *testing.T) {
		t.Parallel()

		got := locale.FormatSafe("Файл <b>{name}</b>", locale.M{"name": "<i>a.png</i>"})
		require.Equal(t, "Файл <b>a.png</b>", got)
	})

	t.Run("plain values are unchanged", func(t *testing.T) {
		t.Parallel()

		got := locale.FormatSafe("Вибрано файлів: {n}", locale.M{"n": 5})
		require.Equal(t, "Вибрано файлів: 5", got)
	})
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{"index", "files", "name", "percent"},
		locale.Placeholders("Завантаження файлу {index} із {files} - {name} - {percent}% завершено."),
	)
	require.Equal(t, []string{"a", "c"}, locale.Placeholders("{a} {a} {{c}} { b }"))
	require.Empty(t, locale.Placeholders("<b>no tokens</b>"))
}
