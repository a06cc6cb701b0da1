// Package migrations embeds the SQL schema so integration tests and
// deployment tooling can apply it without a separate migration runner.
package migrations

import (
	"embed"
	"sort"
)

//go:embed *.sql
var files embed.FS

// Statements returns the migration file contents in lexical order.
func Statements() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, string(data))
	}
	return out, nil
}
