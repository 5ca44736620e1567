package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pagestep/internal/page"
	"github.com/v0xg/pagestep/internal/steps"
)

var login = &page.Definition{Name: "login", Fields: []page.Field{
	{Name: "Email", Locator: "#email"},
	{Name: "Submit", Locator: "#submit"},
	{Name: "Errors", Locator: ".error", Optional: true, Cardinality: page.List},
}}

func TestDescribePageHidesSelectors(t *testing.T) {
	t.Parallel()

	s, err := describePage(login)
	require.NoError(t, err)
	assert.Contains(t, s, `"name": "Errors"`)
	assert.Contains(t, s, `"list": true`)
	assert.NotContains(t, s, "#email")
}

func TestParseStepsJSON(t *testing.T) {
	t.Parallel()

	reply := "Sure, here you go:\n```json\n[\n" +
		`{"action": "load", "page": "login"},` +
		`{"action": "type", "element": "Email", "text": "{user}"},` +
		`{"action": "click", "element": "Submit"}` +
		"\n]\n```"

	got, err := parseStepsJSON(reply, login)
	require.NoError(t, err)
	assert.Equal(t, []steps.Step{
		{Action: "load", Page: "login"},
		{Action: "type", Element: "Email", Text: "{user}"},
		{Action: "click", Element: "Submit"},
	}, got)
}

func TestParseStepsJSONRejects(t *testing.T) {
	t.Parallel()

	_, err := parseStepsJSON("no json at all", login)
	assert.ErrorContains(t, err, "no JSON array")

	_, err = parseStepsJSON(`[{"action": "click", "element": "Logout"}]`, login)
	var uerr *page.UnknownElementError
	assert.ErrorAs(t, err, &uerr)

	_, err = parseStepsJSON(`[{"action": "teleport"}]`, login)
	assert.ErrorContains(t, err, "unknown action")
}

func TestNewProviderUnknown(t *testing.T) {
	t.Parallel()

	_, err := NewProvider("llama", "")
	assert.ErrorContains(t, err, "unknown provider")
}
