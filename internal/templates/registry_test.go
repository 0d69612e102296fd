package templates_test

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/templates"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestResolve_EveryListedTemplateIsComplete(t *testing.T) {
	list := templates.List()
	require.NotEmpty(t, list)

	for _, tpl := range list {
		t.Run(tpl.ID, func(t *testing.T) {
			tokens := templates.Resolve(tpl.ID)
			assert.Equal(t, tpl.Tokens, tokens)

			v := reflect.ValueOf(tokens)
			for i := 0; i < v.NumField(); i++ {
				assert.False(t, v.Field(i).IsZero(), "field %s is empty", v.Type().Field(i).Name)
			}

			for _, c := range []string{
				tokens.Primary, tokens.Secondary, tokens.Accent, tokens.Background, tokens.Text, tokens.Border,
				tokens.HeaderGradient.From, tokens.HeaderGradient.To,
				tokens.AccentGradient.From, tokens.AccentGradient.To,
			} {
				assert.Regexp(t, hexColor, c)
			}

			assert.NotEmpty(t, tpl.DisplayName)
			assert.NotEmpty(t, tpl.Description)
		})
	}
}

func TestResolve_UnknownFallsBackToClassic(t *testing.T) {
	assert.Equal(t, templates.Resolve("classic"), templates.Resolve("nonexistent-id"))
	assert.Equal(t, templates.Resolve("classic"), templates.Resolve(""))

	tpl, ok := templates.Lookup("nonexistent-id")
	assert.False(t, ok)
	assert.Equal(t, templates.DefaultID, tpl.ID)
}

func TestList_StableOrder(t *testing.T) {
	first := templates.IDs()
	second := templates.IDs()

	assert.Equal(t, first, second)
	assert.Equal(t, templates.DefaultID, first[0])
	assert.Len(t, first, len(templates.List()))

	seen := make(map[string]bool)
	for _, id := range first {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	list := templates.List()
	list[0].Tokens.Primary = "#000000"

	assert.NotEqual(t, "#000000", templates.Resolve(list[0].ID).Primary)
}

func TestPosition(t *testing.T) {
	n, total := templates.Position("modern")
	assert.Equal(t, 2, n)
	assert.Equal(t, len(templates.List()), total)

	n, _ = templates.Position("unknown")
	assert.Equal(t, 1, n)
}

func TestRGBAndContrast(t *testing.T) {
	r, g, b := templates.RGB("#1e3a8a")
	assert.Equal(t, []int{0x1e, 0x3a, 0x8a}, []int{r, g, b})

	r, g, b = templates.RGB("#zzz")
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})

	assert.True(t, templates.IsLight("#f3f4f6"))
	assert.False(t, templates.IsLight("#1e3a8a"))

	assert.Equal(t, "#ffffff", templates.Resolve("classic").HeaderForeground())
	assert.Equal(t, templates.Resolve("minimal").Text, templates.Resolve("minimal").HeaderForeground())
}
