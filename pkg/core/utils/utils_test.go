package utils_test

import (
	"testing"

	"business_planner/pkg/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Periods  int    `json:"periods"`
	Currency string `json:"currency"`
}

func TestSmartParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"standard json", `{"periods": 24, "currency": "EUR"}`},
		{"trailing comma", `{"periods": 24, "currency": "EUR",}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d doc
			normalized, err := utils.SmartParse(tt.input, &d)
			require.NoError(t, err)
			assert.Equal(t, doc{Periods: 24, Currency: "EUR"}, d)

			var again doc
			_, err = utils.SmartParse(normalized, &again)
			require.NoError(t, err)
			assert.Equal(t, d, again)
		})
	}
}

func TestParseHJSON(t *testing.T) {
	out, err := utils.ParseHJSON("{\n  # horizon\n  periods: 24\n  currency: EUR\n}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"periods": 24, "currency": "EUR"}`, out)
}

func TestSmartParse_WrongShape(t *testing.T) {
	var d doc
	_, err := utils.SmartParse(`{"periods": "many"}`, &d)
	assert.ErrorIs(t, err, utils.ErrUnparseable)
}

func TestCanonicalJSON(t *testing.T) {
	a, err := utils.CanonicalJSON([]byte(`{"b": 1, "a": {"d": 2, "c": 3}}`))
	require.NoError(t, err)
	b, err := utils.CanonicalJSON([]byte("{\"a\":{\"c\":3,\"d\":2},\n \"b\":1}"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, `{"a":{"c":3,"d":2},"b":1}`, string(a))

	_, err = utils.CanonicalJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestRenderMarkdown(t *testing.T) {
	html, err := utils.RenderMarkdown("```markdown\n# Plan\n\n| a | b |\n|---|---|\n| 1 | 2 |\n```")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Plan</h1>")
	assert.Contains(t, html, "<table>")
}

func TestCleanMarkdown(t *testing.T) {
	assert.Equal(t, "# Plan", utils.CleanMarkdown("```\n# Plan\n```"))
	assert.Equal(t, "plain", utils.CleanMarkdown("  plain  "))
}
