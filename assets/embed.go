// assets/embed.go
//
// Files compiled into the server binary:
//   - sql/<dialect>/*.sql: schema migrations per database dialect.
//   - blocklist.txt:       default words rejected by strict validation.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed sql blocklist.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
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
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// BlockList returns the embedded default blocklist.
func BlockList() ([]string, error) {
	return readLines("blocklist.txt")
}

// Migrations returns the migration files for a dialect ("sqlite", "mysql", "postgres").
func Migrations(dialect string) (fs.FS, error) {
	return fs.Sub(FS, "sql/"+dialect)
}
