package wordbank

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FiltersAndNormalizes(t *testing.T) {
	input := "plage\nCRANE\n  arbre  \nfour\ntoolong\nab1cd\n\nplage\nélève\n"

	words := Parse(strings.NewReader(input))

	assert.Equal(t, []string{"PLAGE", "CRANE", "ARBRE", "ÉLÈVE"}, words)
}

func TestLoad_Embedded(t *testing.T) {
	bank := Load("")

	assert.Equal(t, SourceEmbedded, bank.Source())
	assert.Greater(t, bank.Len(), 100)
	assert.Contains(t, bank.Words(), "PLAGE")
	for _, w := range bank.Words() {
		assert.Len(t, []rune(w), 5)
		assert.Equal(t, strings.ToUpper(w), w)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("crane\nslate\nxx\n"), 0o644))

	bank := Load(path)

	assert.Equal(t, SourceFile, bank.Source())
	assert.Equal(t, []string{"CRANE", "SLATE"}, bank.Words())
}

func TestLoad_FallsBackToBuiltin(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		bank := Load(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Equal(t, SourceBuiltin, bank.Source())
		assert.Equal(t, len(builtinWords), bank.Len())
	})

	t.Run("file without valid words", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.txt")
		require.NoError(t, os.WriteFile(path, []byte("a\nbb\n123456\n"), 0o644))

		bank := Load(path)
		assert.Equal(t, SourceBuiltin, bank.Source())
		assert.NotZero(t, bank.Len())
	})

	t.Run("empty explicit list", func(t *testing.T) {
		bank := New(nil)
		assert.Equal(t, SourceBuiltin, bank.Source())
		assert.Contains(t, bank.Words(), "ABORD")
	})
}

func TestBank_WordsReturnsCopy(t *testing.T) {
	bank := New([]string{"crane", "slate"})

	words := bank.Words()
	words[0] = "MUTED"

	assert.Equal(t, "CRANE", bank.Words()[0])
	assert.NotContains(t, bank.Words(), "MUTED")
}
