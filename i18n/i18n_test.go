package i18n

import (
	"slices"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("english", func(t *testing.T) {
		l, err := New("en")
		require.NoError(t, err)
		assert.Equal(t, "en", l.Lang())
		assert.Equal(t, "Required", l.Message("required", nil))
	})

	t.Run("italian", func(t *testing.T) {
		l, err := New("it")
		require.NoError(t, err)
		assert.Equal(t, "Obbligatoria", l.Message("required", nil))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := New("fr")
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := New("not a language!")
		assert.Error(t, err)
	})
}

func TestMessageTemplateData(t *testing.T) {
	l, err := New("en")
	require.NoError(t, err)

	got := l.Message("file_limit", map[string]any{"Types": ".pdf", "Size": 5})
	assert.Equal(t, "Accepted: .pdf (max 5 MB)", got)
}

func TestMessageMissingID(t *testing.T) {
	l, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "does_not_exist", l.Message("does_not_exist", nil))
}

func TestPlural(t *testing.T) {
	en, err := New("en")
	require.NoError(t, err)
	assert.Equal(t, "1 question", en.Plural("questions_count", 1))
	assert.Equal(t, "3 questions", en.Plural("questions_count", 3))

	it, err := New("it")
	require.NoError(t, err)
	assert.Equal(t, "3 domande", it.Plural("questions_count", 3))
}

func TestCatalogsHaveSameMessages(t *testing.T) {
	langs, err := Languages()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "it"}, langs)

	ids := func(file string) []string {
		data, err := locales.ReadFile(file)
		require.NoError(t, err)
		var messages map[string]any
		require.NoError(t, toml.Unmarshal(data, &messages))
		keys := make([]string, 0, len(messages))
		for k := range messages {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return keys
	}
	assert.Equal(t, ids("locales/active.en.toml"), ids("locales/active.it.toml"))
}
