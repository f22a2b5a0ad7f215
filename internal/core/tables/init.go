// Package tables registers all table definitions with the core registry.
// Import this package to ensure all tables are registered.
package tables

import "github.com/JonMunkholm/standings/internal/core"

// Each table file uses init() to register its table.

func getCell(row []string, idx core.HeaderIndex, name string) string {
	return core.Cell(row, idx, name)
}

// normalized applies fn to non-empty values.
func normalized(s string, fn func(string) string) string {
	if s == "" {
		return s
	}
	return fn(s)
}
