package core

import (
	"time"
)

// Target table keys.
const (
	TableCompetitors  = "competitors"
	TableCompetitions = "competitions"
	TableResults      = "competition_results"
)

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
	FieldBool
	FieldInteger
)

// String returns the name used for the type in row errors.
func (t FieldType) String() string {
	switch t {
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "number"
	case FieldBool:
		return "bool"
	case FieldInteger:
		return "integer"
	default:
		return "text"
	}
}

// FieldSpec describes one CSV column of a table.
//
// A required field must be in the header and non-empty on every row. Any
// other field may be absent or empty and is stored as NULL.
type FieldSpec struct {
	Name     string    // Column header name (matched case-insensitively)
	DBColumn string    // Database column name, empty when the field is not stored directly
	Type     FieldType // Expected data type
	Required bool
}

// TableInfo contains descriptive information about a target table.
type TableInfo struct {
	Key           string   // Registry key: "competitors"
	Label         string   // Display name: "Competitors"
	Table         string   // Database table the rows are appended to
	Columns       []string // Database columns written on insert, in order
	NaturalColumn string   // Column returned with the id on insert, empty if the table has none
}

// Domain names a reference domain whose natural keys can be resolved.
type Domain string

const (
	DomainCompetitor  Domain = "competitor"
	DomainCompetition Domain = "competition"
)

// Reference declares a column whose value is a surrogate id in another table.
//
// The value arrives either as a natural key read from Field, as an explicit
// surrogate id read from RefField, or as a natural key injected by the
// importer when Field is empty.
type Reference struct {
	Column   string // Database column receiving the surrogate id
	Domain   Domain // Domain the id belongs to
	Field    string // CSV header carrying the natural key
	RefField string // CSV header carrying an explicit surrogate id
}

// Label returns the name used for the reference in reports.
func (r Reference) Label() string {
	if r.Field != "" {
		return r.Field
	}
	return r.Column
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// Record is one CSV row converted for the store.
type Record struct {
	Line   int               // 1-based line in the source file
	Values map[string]any    // Database column to value
	Keys   map[string]string // Reference column to natural key awaiting resolution
	Refs   map[string]int64  // Reference column to explicit surrogate id awaiting verification
}

// NewRecord returns a record with its maps allocated.
func NewRecord(line int) Record {
	return Record{
		Line:   line,
		Values: make(map[string]any),
		Keys:   make(map[string]string),
		Refs:   make(map[string]int64),
	}
}

// Batch is the ordered set of records read from one file.
type Batch struct {
	Table   string
	File    string
	Records []Record
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

// Inject sets the natural key for column on every record of the batch.
func (b *Batch) Inject(column, key string) {
	for i := range b.Records {
		if b.Records[i].Keys == nil {
			b.Records[i].Keys = make(map[string]string)
		}
		b.Records[i].Keys[column] = key
	}
}

// BuildRecordFunc converts a validated CSV row into a record.
type BuildRecordFunc func(row []string, headerIdx HeaderIndex) (Record, error)

// TableDefinition contains everything needed to load one CSV kind.
type TableDefinition struct {
	Info        TableInfo
	FieldSpecs  []FieldSpec
	References  []Reference
	BuildRecord BuildRecordFunc
}

// InsertedKey identifies a row the writer just inserted.
type InsertedKey struct {
	ID      int64
	Natural string
}

// StepResult contains the outcome of importing one file.
type StepResult struct {
	Table       string
	File        string
	Read        int
	Inserted    int
	Report      Report
	Competition *InsertedKey // Set for competition steps
	Duration    time.Duration
}

// RunResult contains the outcome of a whole import run.
type RunResult struct {
	RunID string
	Steps []StepResult
}

// Inserted returns the number of rows inserted into table across all steps.
func (r *RunResult) Inserted(table string) int {
	n := 0
	for _, s := range r.Steps {
		if s.Table == table {
			n += s.Inserted
		}
	}
	return n
}

// Unresolved returns every unresolved row reported during the run.
func (r *RunResult) Unresolved() Report {
	var out Report
	for _, s := range r.Steps {
		out = append(out, s.Report...)
	}
	return out
}
