package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_WordList(t *testing.T) {
	// Given: a flat word list, two-space separated, with a homograph marker
	path := writeTempFile(t, "words.txt", strings.Join([]string{
		"cart  a small vehicle",
		"carts  plural of cart",
		"BANK1  a financial institution",
		"bank2  the side of a river",
		"orphan-without-definition",
		"",
	}, "\n"))

	// When: the list is loaded
	trie, err := Load(path)

	// Then: words are folded, markers stripped, duplicates merged
	require.NoError(t, err)
	assert.True(t, trie.IsWord("cart"))
	assert.True(t, trie.IsWord("bank"))
	assert.Equal(t, "a financial institution OR the side of a river", trie.Definition("bank"))

	// Then: definition-less lines are skipped
	assert.False(t, trie.IsWord("orphan-without-definition"))
}

func TestLoad_JSON(t *testing.T) {
	// Given: a wiktionary-style dump with tags and an entry without glosses
	path := writeTempFile(t, "dict.json", `{
		"cart": {
			"noun": [{"gloss": "a small vehicle"}, {"gloss": "a shopping basket", "tags": ["informal"]}],
			"verb": [{"gloss": "to haul"}]
		},
		"empty": {"noun": [{"gloss": "   "}]}
	}`)

	// When: the dump is loaded
	trie, err := Load(path)

	// Then: senses are numbered, tagged, sorted by part of speech
	require.NoError(t, err)
	require.Equal(t, 1, trie.Len())
	assert.Equal(t,
		"noun: 1. a small vehicle; 2. a shopping basket [informal] | verb: 1. to haul",
		trie.Definition("cart"),
	)

	// Then: entries with no usable gloss are dropped
	assert.False(t, trie.IsWord("empty"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))

	require.Error(t, err)
}

func TestLoad_EmptyDictionary(t *testing.T) {
	// Given: a source that yields no words at all
	path := writeTempFile(t, "words.txt", "just-a-word-no-definition\n")

	// Then: the loader refuses to produce a degenerate dictionary
	_, err := Load(path)
	require.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeTempFile(t, "dict.json", `["not", "an", "object"]`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	// Given: a definition longer than the cap
	long := strings.Repeat("a", definitionMax+10)

	got := truncate(long, definitionMax)

	// Then: it is cut to the cap and marked with an ellipsis
	require.Equal(t, definitionMax, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	// Then: short strings pass through untouched
	require.Equal(t, "short", truncate("short", definitionMax))
}
