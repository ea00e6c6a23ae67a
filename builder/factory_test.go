package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-form/model"
)

func TestNewElementDefaults(t *testing.T) {
	for _, typ := range model.ElementTypes {
		t.Run(string(typ), func(t *testing.T) {
			el, err := NewElement(typ, ElementConfig{})
			require.NoError(t, err)

			assert.Equal(t, typ, el.Type)
			assert.NotEmpty(t, el.ID)
			assert.NotEmpty(t, el.Title)
			assert.False(t, el.Required)

			if p, ok := el.Choice(); ok {
				assert.NotEmpty(t, p.Options)
			}
			if p, ok := el.Scale(); ok {
				assert.LessOrEqual(t, p.Min, p.Max)
			}

			doc := model.Document{ID: "d", Elements: []model.Element{el}}
			assert.NoError(t, model.Validate(&doc))
		})
	}
}

func TestNewElementUniqueIDs(t *testing.T) {
	a, err := NewElement(model.TypeText, ElementConfig{})
	require.NoError(t, err)
	b, err := NewElement(model.TypeText, ElementConfig{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewElementOverrides(t *testing.T) {
	title, required, allowOther := "Pick one", true, true
	lo, hi := 0, 10
	options := []string{"Red", "Blue"}

	el, err := NewElement(model.TypeMultipleChoice, ElementConfig{
		Title:      &title,
		Required:   &required,
		Options:    options,
		AllowOther: &allowOther,
		Min:        &lo,
		Max:        &hi,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pick one", el.Title)
	assert.True(t, el.Required)
	p, ok := el.Choice()
	require.True(t, ok)
	assert.Equal(t, []string{"Red", "Blue"}, p.Options)
	assert.True(t, p.AllowOther)

	options[0] = "Green"
	assert.Equal(t, "Red", p.Options[0])
}

func TestNewElementIgnoresInapplicableOverrides(t *testing.T) {
	required, allowOther := true, true

	section, err := NewElement(model.TypeSection, ElementConfig{Required: &required})
	require.NoError(t, err)
	assert.False(t, section.Required)

	dropdown, err := NewElement(model.TypeDropdown, ElementConfig{AllowOther: &allowOther})
	require.NoError(t, err)
	p, _ := dropdown.Choice()
	assert.False(t, p.AllowOther)
}

func TestNewElementUnknownType(t *testing.T) {
	_, err := NewElement("signature", ElementConfig{})
	assert.True(t, errors.Is(err, ErrUnknownElementType))
}
