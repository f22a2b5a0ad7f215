// Package core provides the business logic for the standings CSV import.
//
// This package holds the import pipeline independent of the command line
// surface. It can be driven by the importer command or by tests against an
// embedded SQLite store without modification.
//
// # Architecture
//
// The pipeline is organized around a few concepts, leaves first:
//
//   - Table Definitions: registered via the registry, each target table has
//     field specs, reference fields and a record builder.
//   - Record Source: [ReadCSV] turns a CSV file into a [Batch] of typed
//     [Record] values, each still carrying its natural keys.
//   - Key Resolver: [Resolver] maps natural keys (competitor ids, competition
//     codes) to the surrogate ids the store assigned.
//   - Reconciliation: [Engine.Reconcile] substitutes surrogate ids for natural
//     keys and splits a batch into resolvable rows and a [Report].
//   - Append Writer: [Writer.Append] inserts resolvable rows and returns the
//     identifying fields of each row it wrote.
//   - Orchestration: [Importer.Run] imports competitors, then every
//     competition followed by its results.
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// contains everything needed to load one CSV kind:
//
//	core.Register(TableDefinition{
//	    Info: TableInfo{Key: "competitors", Table: "competitors", NaturalColumn: "competitor_id"},
//	    FieldSpecs: []FieldSpec{
//	        {Name: "player_id", DBColumn: "competitor_id", Required: true},
//	        {Name: "player_name", DBColumn: "display_name", Required: true},
//	    },
//	    BuildRecord: buildCompetitor,
//	})
//
// # Resolution
//
// Rows whose natural keys cannot be resolved are never written. They are
// returned in the step's [Report] and printed by the importer; a miss is not
// an error. Source problems, constraint violations and connection failures
// abort the run.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each error category has a code for support reference:
//
//   - SRC001-SRC004: Source file errors (missing file, columns, cell values)
//   - DB001-DB005: Store errors (constraints, connections, schema)
//   - RUN001-RUN002: Run errors (interrupted, timed out)
package core
