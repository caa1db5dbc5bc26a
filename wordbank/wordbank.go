// Package wordbank loads the candidate words puzzles are drawn from.
package wordbank

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"wordler/models"

	log "github.com/sirupsen/logrus"
)

//go:embed words_fr.txt
var embeddedWords string

// builtinWords is used when no other source yields a single valid word
var builtinWords = []string{
	"ABORD", "ACCES", "ACHAT", "ACIDE", "ACIER", "ACTIF", "ADIEU", "AGENT",
	"AIDER", "AIMER", "AINSI", "ALBUM", "ALLER", "ALLIE", "ALORS", "AMANT",
	"AMOUR", "ANGLE", "ANNEE", "APPEL", "APPUI", "APRES", "ARABE", "ARBRE",
	"ARMEE", "ARMER", "ARRET", "ASILE", "ASSEZ", "ATOUT", "AUCUN", "AUSSI",
	"AUTRE", "AVANT", "AVION", "AVOIR", "AVRIL", "BALLE", "BANAL", "BANDE",
	"BARRE", "BASER", "BATIR", "BATON", "BELGE", "BETON", "BIAIS", "BIERE",
}

const (
	SourceFile     = "file"
	SourceEmbedded = "embedded"
	SourceBuiltin  = "builtin"
)

// Bank is an immutable, ordered list of valid words
type Bank struct {
	words  []string
	source string
}

// Load reads words from path, or from the embedded list when path is empty.
// An unreadable or empty source falls back to the built-in list, so the
// returned bank is never empty.
func Load(path string) *Bank {
	if path != "" {
		words, err := readFile(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("Word list unavailable, using built-in words")
			return newBank(builtinWords, SourceBuiltin)
		}
		if len(words) == 0 {
			log.WithField("path", path).Warn("Word list has no valid words, using built-in words")
			return newBank(builtinWords, SourceBuiltin)
		}
		return newBank(words, SourceFile)
	}

	words := Parse(strings.NewReader(embeddedWords))
	if len(words) == 0 {
		return newBank(builtinWords, SourceBuiltin)
	}
	return newBank(words, SourceEmbedded)
}

// New builds a bank from an explicit list, keeping only valid words.
// An empty result falls back to the built-in list.
func New(words []string) *Bank {
	valid := filter(words)
	if len(valid) == 0 {
		return newBank(builtinWords, SourceBuiltin)
	}
	return newBank(valid, SourceFile)
}

// Parse reads one token per line and keeps the valid words in first-seen
// order. Invalid tokens are dropped silently.
func Parse(r io.Reader) []string {
	var tokens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	return filter(tokens)
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()
	return Parse(f), nil
}

func filter(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		word, ok := models.NormalizeWord(token)
		if !ok {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

func newBank(words []string, source string) *Bank {
	b := &Bank{
		words:  make([]string, len(words)),
		source: source,
	}
	copy(b.words, words)
	log.WithFields(log.Fields{
		"source": source,
		"words":  len(words),
	}).Debug("Word bank loaded")
	return b
}

// Words returns a copy of the words in load order
func (b *Bank) Words() []string {
	out := make([]string, len(b.words))
	copy(out, b.words)
	return out
}

// Len returns the number of words
func (b *Bank) Len() int {
	return len(b.words)
}

// Source names where the words came from
func (b *Bank) Source() string {
	return b.source
}
