package dictionary

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// definitionMax caps formatted definitions; longer ones are cut and marked
// with an ellipsis.
const definitionMax = 500

var (
	ErrEmptyDictionary = errors.New("dictionary is empty")

	wordListSeparator = regexp.MustCompile(`\s{2,}`)
	trailingDigits    = regexp.MustCompile(`\d+$`)
)

// sense is one gloss of a word within a part of speech, as found in the
// wiktionary-style JSON dump.
type sense struct {
	Gloss string   `json:"gloss"`
	Tags  []string `json:"tags"`
}

// Load builds a trie from the dictionary source at path. JSON sources are
// expected to map words to part-of-speech sense lists; anything else is read
// as a flat word list with two-space separated definitions. An unreadable
// source or an empty result is an error: the server must not come up with a
// degenerate dictionary.
func Load(path string) (*Trie, error) {
	trie := NewTrie()

	var err error
	if filepath.Ext(path) == ".json" {
		err = loadJSON(trie, path)
	} else {
		err = loadWordList(trie, path)
	}

	if err != nil {
		return nil, err
	}

	if trie.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDictionary, path)
	}

	return trie, nil
}

// loadJSON streams a {word: {pos: [{gloss, tags}]}} document into the trie
// one entry at a time, so the raw dump is never held in memory at once.
func loadJSON(trie *Trie, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	dec := json.NewDecoder(bufio.NewReader(file))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read dictionary: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dictionary %s: expected root JSON object", path)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read dictionary entry: %w", err)
		}

		word, ok := tok.(string)
		if !ok {
			return fmt.Errorf("dictionary %s: expected word key, got %v", path, tok)
		}

		var posMap map[string][]sense
		if err = dec.Decode(&posMap); err != nil {
			return fmt.Errorf("failed to decode senses of %q: %w", word, err)
		}

		definition := formatSenses(posMap)
		if definition == "" {
			continue
		}

		trie.Insert(word, truncate(definition, definitionMax))
	}

	return nil
}

// loadWordList reads "word  definition" lines, separator being two or more
// spaces. Trailing digits on the headword (homograph markers) are stripped;
// lines without a definition are skipped.
func loadWordList(trie *Trie, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		parts := wordListSeparator.Split(strings.TrimSpace(scanner.Text()), 2)
		if len(parts) < 2 {
			continue
		}

		word := trailingDigits.ReplaceAllString(strings.ToLower(parts[0]), "")
		if word == "" {
			continue
		}

		trie.Insert(word, truncate(strings.TrimSpace(parts[1]), definitionMax))
	}

	if err = scanner.Err(); err != nil {
		return fmt.Errorf("failed to read dictionary: %w", err)
	}

	return nil
}

// formatSenses renders a cleaned pos→senses map as one line: parts of speech
// sorted and joined with " | ", senses numbered within each and joined with
// "; ", tags appended in brackets.
func formatSenses(posMap map[string][]sense) string {
	positions := make([]string, 0, len(posMap))
	for pos, senses := range posMap {
		if pos == "" || !hasGloss(senses) {
			continue
		}
		positions = append(positions, pos)
	}

	sort.Strings(positions)

	parts := make([]string, 0, len(positions))
	for _, pos := range positions {
		rendered := make([]string, 0, len(posMap[pos]))
		for _, s := range posMap[pos] {
			gloss := strings.TrimSpace(s.Gloss)
			if gloss == "" {
				continue
			}

			entry := fmt.Sprintf("%d. %s", len(rendered)+1, gloss)
			if len(s.Tags) > 0 {
				entry += " [" + strings.Join(s.Tags, ", ") + "]"
			}

			rendered = append(rendered, entry)
		}

		parts = append(parts, pos+": "+strings.Join(rendered, "; "))
	}

	return strings.Join(parts, " | ")
}

func hasGloss(senses []sense) bool {
	for _, s := range senses {
		if strings.TrimSpace(s.Gloss) != "" {
			return true
		}
	}

	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-1]) + "…"
}
