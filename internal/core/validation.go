package core

import (
	"fmt"
	"slices"
	"strings"
)

// A file is checked twice before any row is built: its header once, then each
// data row. A failure rejects the whole file. A reference whose key does not
// resolve is not a failure here; the engine reports it.

// columnGroup is satisfied when the header carries any one of its columns.
type columnGroup []string

func (g columnGroup) String() string {
	return strings.Join(g, " or ")
}

// headerGroups lists the columns a file for def must carry: each required
// field on its own, and for each reference read from the file either its
// natural key column or its explicit id column. References supplied by the
// importer add nothing.
func headerGroups(def TableDefinition) []columnGroup {
	var groups []columnGroup
	for _, f := range def.FieldSpecs {
		if f.Required {
			groups = append(groups, columnGroup{f.Name})
		}
	}
	for _, ref := range def.References {
		var g columnGroup
		if ref.Field != "" {
			g = append(g, ref.Field)
		}
		if ref.RefField != "" {
			g = append(g, ref.RefField)
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// has reports whether the header carries name.
func (h HeaderIndex) has(name string) bool {
	_, ok := h[strings.ToLower(name)]
	return ok
}

// checkHeader indexes header and fails listing every unsatisfied group.
func checkHeader(header []string, def TableDefinition) (HeaderIndex, error) {
	idx := MakeHeaderIndex(header)

	var missing []string
	for _, g := range headerGroups(def) {
		if !slices.ContainsFunc(g, idx.has) {
			missing = append(missing, g.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// checkRow verifies that every required cell of row is set and that every set
// cell converts to its field type. All problems of the row are joined into one
// error wrapping ErrInvalidRow.
func checkRow(row []string, idx HeaderIndex, specs []FieldSpec) error {
	var problems []string
	for _, f := range specs {
		value := Cell(row, idx, f.Name)
		if value == "" {
			if f.Required {
				problems = append(problems, f.Name+": required field is empty")
			}
			continue
		}
		if !converts(f.Type, value) {
			problems = append(problems, fmt.Sprintf("%s: invalid %s %q", f.Name, f.Type, value))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRow, strings.Join(problems, "; "))
}

func converts(t FieldType, value string) bool {
	switch t {
	case FieldDate:
		return ToPgDate(value).Valid
	case FieldNumeric:
		return ToPgNumeric(value).Valid
	case FieldBool:
		return ToPgBool(value).Valid
	case FieldInteger:
		return ToPgInt8(value).Valid
	default:
		return true
	}
}
