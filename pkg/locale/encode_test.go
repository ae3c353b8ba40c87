package locale_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
)

func TestEncodeJSON(t *testing.T) {
	t.Parallel()

	s := locale.NewSchema(
		[]string{locale.KeySizeUnits},
		[]locale.MessageSpec{{Key: "msgB"}, {Key: "msgA"}},
		[]locale.GroupSpec{{Name: locale.GroupAjaxOperations, Keys: []string{"deleteThumb", "uploadThumb"}}},
	)

	b := locale.NewBundle()
	b.SizeUnits = []string{"B"}
	b.Messages["msgA"] = "a"
	b.Messages["msgB"] = "<b>{size}</b>"
	b.Messages["msgZ"] = "z"
	b.Groups[locale.GroupAjaxOperations] = map[string]string{"uploadThumb": "u", "deleteThumb": "d"}
	b.Groups["extraGroup"] = map[string]string{"k": "v"}

	data, err := locale.EncodeJSON(b, s)
	require.NoError(t, err)
	require.Equal(t,
		`{"sizeUnits":["B"],"msgB":"<b>{size}</b>","msgA":"a","msgZ":"z","ajaxOperations":{"deleteThumb":"d","uploadThumb":"u"},"extraGroup":{"k":"v"}}`,
		string(data),
	)
}

func TestBundle_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	b := locale.NewBundle()
	b.SizeUnits = []string{"Б", "КБ"}
	b.Messages["msgSelected"] = "Вибрано файлів: {n}"
	b.Groups[locale.GroupAjaxOperations] = map[string]string{"deleteThumb": "видалити файл"}

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var got locale.Bundle
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, b.SizeUnits, got.SizeUnits)
	require.Equal(t, b.Messages, got.Messages)
	require.Equal(t, b.Groups, got.Groups)

	require.ErrorIs(t, json.Unmarshal([]byte(`{"msgNo":1}`), &got), locale.ErrInvalidValue)
}

func TestWriteScript(t *testing.T) {
	t.Parallel()

	b := locale.NewBundle()
	b.Messages["msgSelected"] = "Вибрано файлів: {n}"
	b.Messages["msgSizeTooLarge"] = `Файл "{name}" (<b>{size}</b>) перевищує <b>{maxSize}</b>.`

	var buf bytes.Buffer
	require.NoError(t, locale.WriteScript(&buf, "uk", "Ukrainian", b, locale.DefaultSchema()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "/*!\n * FileInput Ukrainian Translations\n"))
	require.Contains(t, out, `$.fn.fileinputLocales["uk"] = {`)
	require.Contains(t, out, `"msgSelected": "Вибрано файлів: {n}"`)
	require.Contains(t, out, `<b>{size}</b>`)
	require.True(t, strings.HasSuffix(out, "};\n}));\n"))
	require.Less(t,
		strings.Index(out, `"msgSizeTooLarge"`),
		strings.Index(out, `"msgSelected"`),
		"keys follow schema order",
	)
}
