package tables

import (
	"fmt"

	"github.com/JonMunkholm/standings/internal/core"
)

func init() {
	registerResults()
}

// A results row names its competitor either by natural id (player_id) or by
// an already known surrogate id (player_ref); player_ref wins when both are
// set. The competition is injected by the importer, so a legacy event_id
// column is ignored.
func registerResults() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.TableResults,
			Label: "Competition Results",
			Table: "competition_results",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "player_ref", Type: core.FieldInteger},
			{Name: "placement", DBColumn: "placement", Type: core.FieldInteger, Required: true},
			{Name: "score", DBColumn: "score", Type: core.FieldNumeric},
		},
		References: []core.Reference{
			{Column: "competitor_id", Domain: core.DomainCompetitor, Field: "player_id", RefField: "player_ref"},
			{Column: "competition_id", Domain: core.DomainCompetition},
		},
		BuildRecord: func(row []string, idx core.HeaderIndex) (core.Record, error) {
			rec := core.NewRecord(0)
			rec.Values["placement"] = core.ToPgInt4(getCell(row, idx, "placement"))
			rec.Values["score"] = core.ToPgNumeric(getCell(row, idx, "score"))

			if ref := getCell(row, idx, "player_ref"); ref != "" {
				id := core.ToPgInt8(ref)
				if !id.Valid || id.Int64 <= 0 {
					return rec, fmt.Errorf("player_ref: invalid id %q", ref)
				}
				rec.Refs["competitor_id"] = id.Int64
			} else if key := getCell(row, idx, "player_id"); key != "" {
				rec.Keys["competitor_id"] = key
			}
			return rec, nil
		},
	})
}
