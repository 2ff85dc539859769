// Package petname validates player-chosen pet names against the naming
// grammar and an operator-maintained profanity list.
package petname

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mistvale/beastmaster/internal/logger"
)

// Name length bounds, in characters.
const (
	MinLength = 2
	MaxLength = 16
)

// Result contains the outcome of checking a name
type Result struct {
	Allowed bool   // Whether the name is allowed
	Reason  string // Reason for rejection (if not allowed)
}

func allow() Result { return Result{Allowed: true} }

func deny(reason string) Result { return Result{Allowed: false, Reason: reason} }

// ValidateGrammar checks the name against the naming rules: between
// MinLength and MaxLength characters, starting and ending with a letter,
// with only letters, spaces, hyphens and apostrophes in between. The
// name is checked as given; callers trim surrounding whitespace first.
func ValidateGrammar(name string) Result {
	if len(name) < MinLength {
		return deny("Pet names must be at least 2 characters long.")
	}
	if len(name) > MaxLength {
		return deny("Pet names must be at most 16 characters long.")
	}
	if !isLetter(name[0]) || !isLetter(name[len(name)-1]) {
		return deny("Pet names must start and end with a letter.")
	}
	for i := 1; i < len(name)-1; i++ {
		c := name[i]
		if isLetter(c) || c == ' ' || c == '-' || c == '\'' {
			continue
		}
		return deny("Pet names may only contain letters, spaces, hyphens and apostrophes.")
	}
	return allow()
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Filter validates names against the grammar and a profanity word list
// loaded from a plain-text file, one word per line. The file is re-read
// whenever its modification time changes, so operators can edit the list
// without a restart.
type Filter struct {
	mu      sync.Mutex
	path    string
	enabled bool
	words   []string  // lowercase, partial match
	modTime time.Time // of the last successful load
	loaded  bool
}

// NewFilter creates a filter backed by the word list at path. A disabled
// filter still enforces the grammar.
func NewFilter(path string, enabled bool) *Filter {
	return &Filter{path: path, enabled: enabled}
}

// Check validates a candidate pet name. Grammar violations are reported
// before profanity matches.
func (f *Filter) Check(name string) Result {
	if result := ValidateGrammar(name); !result.Allowed {
		return result
	}
	if !f.enabled {
		return allow()
	}

	nameLower := strings.ToLower(name)
	for _, word := range f.currentWords() {
		if strings.Contains(nameLower, word) {
			return deny("That name contains a word that is not allowed.")
		}
	}
	return allow()
}

// IsEnabled returns whether the profanity list is consulted.
func (f *Filter) IsEnabled() bool {
	return f.enabled
}

// currentWords returns the word list, reloading it when the file on disk
// has changed since the last load.
func (f *Filter) currentWords() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if err != nil {
		if !f.loaded {
			logger.Warning("Profanity list unavailable", "path", f.path, "error", err)
			f.loaded = true
		}
		return f.words
	}

	if f.loaded && info.ModTime().Equal(f.modTime) {
		return f.words
	}

	words, err := readWordList(f.path)
	if err != nil {
		logger.Error("Could not read profanity list", "path", f.path, "error", err)
		return f.words
	}

	f.words = words
	f.modTime = info.ModTime()
	f.loaded = true
	logger.Info("Profanity list loaded", "path", f.path, "words", len(words))
	return f.words
}

// readWordList parses one lowercase word per line, skipping blank lines
// and lines starting with '#'.
func readWordList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
