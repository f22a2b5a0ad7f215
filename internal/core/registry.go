package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}

	if def.Info.Table == "" {
		def.Info.Table = def.Info.Key
	}

	// Populate Columns from FieldSpecs and References if not set
	if len(def.Info.Columns) == 0 {
		def.Info.Columns = insertColumns(def)
	}

	registry[def.Info.Key] = def
}

// insertColumns lists the stored field columns followed by the reference columns.
func insertColumns(def TableDefinition) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, spec := range def.FieldSpecs {
		if spec.DBColumn == "" || seen[spec.DBColumn] {
			continue
		}
		seen[spec.DBColumn] = true
		cols = append(cols, spec.DBColumn)
	}
	for _, ref := range def.References {
		if seen[ref.Column] {
			continue
		}
		seen[ref.Column] = true
		cols = append(cols, ref.Column)
	}
	return cols
}

// Get returns a table definition by key.
// Returns false if not found.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// MustGet returns a table definition by key or an error naming the unknown table.
func MustGet(key string) (TableDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return TableDefinition{}, fmt.Errorf("unknown table %q", key)
	}
	return def, nil
}

// All returns all registered table definitions, sorted by key.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
