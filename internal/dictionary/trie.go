package dictionary

import "strings"

// NoDefinition is returned for lookups that have no recorded gloss.
const NoDefinition = "No definition available."

// node carries both an optional terminal payload and the children map; a
// single type covers inner prefixes and complete words.
type node struct {
	children   map[rune]*node
	isWord     bool
	definition string
}

// Trie answers word and prefix queries in O(len(s)), independent of the
// vocabulary size. It is built once at startup and read-only afterwards,
// which makes it safe for any number of concurrent readers.
type Trie struct {
	root *node
	size int
}

func NewTrie() *Trie {
	return &Trie{root: &node{}}
}

// Insert adds a word with its definition, case-folded. Inserting the same
// word twice keeps both glosses, joined with " OR ".
func (that *Trie) Insert(word, definition string) {
	n := that.root
	for _, r := range strings.ToLower(word) {
		if n.children == nil {
			n.children = make(map[rune]*node, 2)
		}

		child, ok := n.children[r]
		if !ok {
			child = &node{}
			n.children[r] = child
		}
		n = child
	}

	if n.isWord {
		n.definition += " OR " + definition
		return
	}

	n.isWord = true
	n.definition = definition
	that.size++
}

// Len returns the number of distinct words inserted.
func (that *Trie) Len() int {
	return that.size
}

func (that *Trie) IsWord(s string) bool {
	n := that.node(s)
	return n != nil && n.isWord
}

// HasPrefix reports whether at least one entry extends strictly beyond s.
// A complete word with no longer extensions is not a prefix.
func (that *Trie) HasPrefix(s string) bool {
	n := that.node(s)
	return n != nil && len(n.children) > 0
}

func (that *Trie) Definition(s string) string {
	n := that.node(s)
	if n == nil || !n.isWord {
		return NoDefinition
	}

	return n.definition
}

func (that *Trie) node(s string) *node {
	n := that.root
	for _, r := range strings.ToLower(s) {
		if n.children == nil {
			return nil
		}

		n = n.children[r]
		if n == nil {
			return nil
		}
	}

	return n
}
