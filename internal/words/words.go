// internal/words/words.go
//
// Word bank backing the engine's WordSource collaborator.
//
// Responsibilities:
//   - Load a word list from an environment-provided file or fall back to the
//     embedded default bank.
//   - Bucket words by length (3-6) for quick pick/lookup.
//   - Implement game.WordSource: PickWord (crypto/rand draw) and IsValidWord.
//
// Initialization behavior (New):
//  1. If WORDS_FILE is set, load one word per line from that file.
//  2. Otherwise use the embedded default bank from assets/words.txt.
//
// Constraints:
//   - Words are normalized to uppercase; only alphabetic words of a
//     supported length (3-6) are kept.
//   - A Bank is immutable after construction and safe for concurrent use.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordduel/assets"
	"github.com/robalobadob/wordduel/internal/game"
)

// Bank holds per-length word lists and lookup sets.
type Bank struct {
	byLength map[int][]string
	sets     map[int]map[string]struct{}
}

// New loads the bank from WORDS_FILE when set, else from the embedded
// defaults. Fails if any supported length ends up empty, since a game of
// that length could then never draw a word.
func New() (*Bank, error) {
	var (
		list []string
		err  error
	)
	if path := os.Getenv("WORDS_FILE"); path != "" {
		list, err = readWordFile(path)
	} else {
		list, err = assets.WordList()
	}
	if err != nil {
		return nil, fmt.Errorf("load word bank: %w", err)
	}
	return FromList(list)
}

// FromList builds a bank from an explicit word list (tests use this).
func FromList(list []string) (*Bank, error) {
	b := &Bank{
		byLength: make(map[int][]string),
		sets:     make(map[int]map[string]struct{}),
	}
	for _, raw := range list {
		w := strings.ToUpper(strings.TrimSpace(raw))
		n := len(w)
		if n < game.MinWordLength || n > game.MaxWordLength || !isAlpha(w) {
			continue
		}
		if _, ok := b.sets[n]; !ok {
			b.sets[n] = make(map[string]struct{})
		}
		if _, dup := b.sets[n][w]; dup {
			continue
		}
		b.sets[n][w] = struct{}{}
		b.byLength[n] = append(b.byLength[n], w)
	}
	for n := game.MinWordLength; n <= game.MaxWordLength; n++ {
		if len(b.byLength[n]) == 0 {
			return nil, fmt.Errorf("word bank has no words of length %d", n)
		}
	}
	return b, nil
}

// PickWord returns a cryptographically random word of the given length.
func (b *Bank) PickWord(length int) (string, error) {
	list := b.byLength[length]
	if len(list) == 0 {
		return "", errors.New("no words available for length " + fmt.Sprint(length))
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return "", err
	}
	return list[nBig.Int64()], nil
}

// IsValidWord reports whether word is in the bank at the given length.
func (b *Bank) IsValidWord(word string, length int) bool {
	set := b.sets[length]
	if set == nil {
		return false
	}
	_, ok := set[strings.ToUpper(word)]
	return ok
}

// Stats returns the number of words per supported length.
func (b *Bank) Stats() map[int]int {
	out := make(map[int]int, len(b.byLength))
	for n, list := range b.byLength {
		out[n] = len(list)
	}
	return out
}

// readWordFile loads one word per line, skipping blanks and '#' comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
