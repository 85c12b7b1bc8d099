package tmplx

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, text string, data any) string {
	t.Helper()
	out, err := MustParse("test", text).RenderString(data)
	require.NoError(t, err)
	return out
}

func TestRupiah(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{0, "Rp 0"},
		{999, "Rp 999"},
		{1000, "Rp 1.000"},
		{10800, "Rp 10.800"},
		{int64(1250000), "Rp 1.250.000"},
		{-5500, "-Rp 5.500"},
		{"2500", "Rp 2.500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rupiah(tt.in), "input %v", tt.in)
	}
}

func TestPriceFunctions(t *testing.T) {
	t.Parallel()

	data := map[string]any{"delta": int64(200), "drop": int64(-1500), "pct": 1.8518, "neg": -12.04}
	assert.Equal(t, "+Rp 200 -Rp 1.500", render(t, `{{signed .delta}} {{signed .drop}}`, data))
	assert.Equal(t, "+1.9% -12.0%", render(t, `{{percent .pct}} {{percent .neg}}`, data))
	assert.Equal(t, "0.0%", render(t, `{{percent 0}}`, nil))
}

func TestEscapeMarkdown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `PULSA\_TSEL \*promo\* \[x]`, EscapeMarkdown("PULSA_TSEL *promo* [x]"))
	assert.Equal(t, "TELKOMSEL", render(t, `{{markdown (upper .c)}}`, map[string]string{"c": "telkomsel"}))
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("with template func", func(t *testing.T) {
		tmpl, err := Parse("test", `{{custom}}`,
			WithTemplateFunc("custom", func() string { return "custom" }))
		require.NoError(t, err)

		buf, err := tmpl.Render(nil)
		require.NoError(t, err)
		assert.Equal(t, "custom", strings.TrimSpace(buf.String()))
	})

	t.Run("merge with default funcs", func(t *testing.T) {
		tmpl, err := Parse("test", `{{custom}} {{rupiah 5000}}`,
			WithTemplateFunc("custom", func() string { return "custom" }))
		require.NoError(t, err)

		out, err := tmpl.RenderString(nil)
		require.NoError(t, err)
		assert.Equal(t, "custom Rp 5.000", out)
	})

	t.Run("arithmetic", func(t *testing.T) {
		assert.Equal(t, "and 5 more", render(t, `and {{sub .total .shown}} more`, map[string]int{"total": 15, "shown": 10}))
		assert.Equal(t, "3", render(t, `{{add 1 2}}`, nil))
	})
}

func TestCommonFunctions(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		assert.Equal(t, "OTHER", render(t, `{{default "OTHER" .c}}`, map[string]any{"c": ""}))
		assert.Equal(t, "PLN", render(t, `{{default "OTHER" .c}}`, map[string]any{"c": "PLN"}))
	})

	t.Run("json", func(t *testing.T) {
		assert.Equal(t, `{"code":"S5"}`, render(t, `{{json .}}`, map[string]string{"code": "S5"}))
	})

	t.Run("jsonGet", func(t *testing.T) {
		data := map[string]any{"json": `{"result":{"message_id":42}}`}
		assert.Equal(t, "42", render(t, `{{jsonGet "result.message_id" .json}}`, data))
	})
}

func TestTemplateValidation(t *testing.T) {
	t.Parallel()

	t.Run("successful validation", func(t *testing.T) {
		testData := map[string]any{"code": "S5", "price": 5800}
		validateFn := func(buf *bytes.Buffer) error {
			if !strings.Contains(buf.String(), "Rp 5.800") {
				return fmt.Errorf("expected price in output")
			}
			return nil
		}

		tmpl, err := Parse("test", `{{.code}}: {{rupiah .price}}`, WithValidate(testData, validateFn))
		require.NoError(t, err)

		out, err := tmpl.RenderString(testData)
		require.NoError(t, err)
		assert.Equal(t, "S5: Rp 5.800", out)
	})

	t.Run("failed validation", func(t *testing.T) {
		validateFn := func(buf *bytes.Buffer) error {
			if buf.Len() == 0 {
				return fmt.Errorf("empty message")
			}
			return nil
		}

		_, err := Parse("test", `{{.missing}}`, WithValidate(map[string]string{}, validateFn))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty message")
	})
}

func TestTemplateParseError(t *testing.T) {
	t.Parallel()

	t.Run("invalid template syntax", func(t *testing.T) {
		_, err := Parse("test", `Hello {{.name`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParseTemplate)
	})

	t.Run("invalid function", func(t *testing.T) {
		_, err := Parse("test", `Hello {{.name | invalidFunc}}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParseTemplate)
	})

	t.Run("missing field renders zero", func(t *testing.T) {
		assert.Equal(t, "Hello ", render(t, `Hello {{.name}}`, map[string]string{}))
	})
}
