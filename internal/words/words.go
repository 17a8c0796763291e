// internal/words/words.go
//
// Blocklist management for strict puzzle validation.
//
// Responsibilities:
//   - Load the blocklist from a file or fall back to the embedded default.
//   - Keep a set for quick lookups of normalized (trimmed, lowercase) words.
//
// Loading behavior (Load):
//   1. If path is set, read one entry per line from that file.
//   2. Otherwise use assets/blocklist.txt compiled into the binary.
//
// Blank lines and lines starting with '#' are skipped in both cases.

package words

import (
	"bufio"
	"os"
	"strings"

	"github.com/robalobadob/connections/assets"
)

// List is an immutable set of blocked words. Safe for concurrent reads.
type List struct {
	set map[string]struct{}
}

// New builds a List from raw entries, normalizing each one.
func New(entries []string) *List {
	l := &List{set: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		if w := normalize(e); w != "" && !strings.HasPrefix(w, "#") {
			l.set[w] = struct{}{}
		}
	}
	return l
}

// Load reads the blocklist at path, or the embedded default when path is empty.
func Load(path string) (*List, error) {
	if path == "" {
		entries, err := assets.BlockList()
		if err != nil {
			return nil, err
		}
		return New(entries), nil
	}
	entries, err := readWordFile(path)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}

// Contains reports whether w (normalized by the caller or not) is blocked.
func (l *List) Contains(w string) bool {
	if l == nil {
		return false
	}
	_, ok := l.set[normalize(w)]
	return ok
}

// Len returns the number of blocked entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.set)
}

// readWordFile loads one entry per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
