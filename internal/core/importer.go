package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/standings/internal/logging"
	"github.com/JonMunkholm/standings/internal/metrics"
	"github.com/JonMunkholm/standings/internal/store"
)

// competitionColumn is the results column that references the competition.
const competitionColumn = "competition_id"

// Importer runs the import steps of a plan in dependency order.
type Importer struct {
	engine  *Engine
	writer  *Writer
	out     io.Writer
	metrics *metrics.ImportMetrics
}

// Option configures an Importer.
type Option func(*Importer)

// WithOutput sets where progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(im *Importer) { im.out = w }
}

// WithMetrics records step metrics on m.
func WithMetrics(m *metrics.ImportMetrics) Option {
	return func(im *Importer) { im.metrics = m }
}

// NewImporter creates an importer over db. One resolver is built for the
// importer and shared by every step.
func NewImporter(db *store.DB, opts ...Option) *Importer {
	im := &Importer{
		engine: NewEngine(NewResolver(db, db.Dialect)),
		writer: NewWriter(db),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Run imports competitors, then each competition of the plan followed by its
// results. The code returned by the competition insert is injected into every
// row of the matching results file. Results files without a competition file
// are listed and skipped.
//
// Run stops at the first error; steps that already completed stay committed.
// The returned result covers the completed steps, also on error.
func (im *Importer) Run(ctx context.Context, plan Plan) (*RunResult, error) {
	result := &RunResult{RunID: logging.RunIDFromContext(ctx)}
	log := logging.FromContext(ctx)

	competitors, err := MustGet(TableCompetitors)
	if err != nil {
		return result, err
	}
	competitions, err := MustGet(TableCompetitions)
	if err != nil {
		return result, err
	}
	results, err := MustGet(TableResults)
	if err != nil {
		return result, err
	}

	fmt.Fprintf(im.out, "Importing competitors from %s...\n", plan.Competitors)
	step, err := im.importFile(ctx, competitors, plan.Competitors, nil)
	if err != nil {
		return result, err
	}
	result.Steps = append(result.Steps, step)

	for _, pair := range plan.Competitions {
		fmt.Fprintf(im.out, "Importing competition %s...\n", pair.Competition)
		step, err := im.importCompetition(ctx, competitions, pair.Competition)
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, step)

		if pair.Results == "" {
			log.Warn("competition has no results file", "file", pair.Competition, "code", step.Competition.Natural)
			fmt.Fprintf(im.out, "No results file for %s, moving on.\n", step.Competition.Natural)
			continue
		}

		fmt.Fprintf(im.out, "Importing results for %s...\n", resultsName(pair.Results))
		step, err = im.importFile(ctx, results, pair.Results, map[string]string{
			competitionColumn: step.Competition.Natural,
		})
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, step)
	}

	for _, path := range plan.Unpaired {
		log.Warn("results file has no competition file", "file", path)
		fmt.Fprintf(im.out, "No competition file for %s, skipped.\n", resultsName(path))
	}

	im.metrics.RecordSuccess(time.Now())
	fmt.Fprintln(im.out, "All done!")
	return result, nil
}

// importCompetition imports a competition file, which must hold exactly one
// competition, and captures the key of the inserted row.
func (im *Importer) importCompetition(ctx context.Context, def TableDefinition, path string) (StepResult, error) {
	start := time.Now()

	batch, err := ReadCSV(ctx, path, def)
	if err != nil {
		return StepResult{}, err
	}
	if batch.Len() != 1 {
		return StepResult{}, sourceErr(path, 0, fmt.Errorf("%w, found %d", ErrCompetitionRows, batch.Len()))
	}

	step, inserted, err := im.reconcileAndWrite(ctx, def, batch)
	if err != nil {
		return StepResult{}, err
	}
	if len(inserted) != 1 {
		// The competition row itself did not resolve
		return StepResult{}, sourceErr(path, 0, fmt.Errorf("%w, none could be written", ErrCompetitionRows))
	}
	step.Competition = &inserted[0]

	im.finishStep(ctx, &step, start)
	fmt.Fprintf(im.out, "Done! Created competition %s (id %d).\n", step.Competition.Natural, step.Competition.ID)
	return step, nil
}

// importFile imports one file into def. inject sets natural keys supplied out
// of band on every row.
func (im *Importer) importFile(ctx context.Context, def TableDefinition, path string, inject map[string]string) (StepResult, error) {
	start := time.Now()

	batch, err := ReadCSV(ctx, path, def)
	if err != nil {
		return StepResult{}, err
	}
	for column, key := range inject {
		batch.Inject(column, key)
	}

	step, _, err := im.reconcileAndWrite(ctx, def, batch)
	if err != nil {
		return StepResult{}, err
	}

	im.finishStep(ctx, &step, start)
	fmt.Fprintf(im.out, "Done! %d of %d rows inserted.\n", step.Inserted, step.Read)
	return step, nil
}

func (im *Importer) reconcileAndWrite(ctx context.Context, def TableDefinition, batch *Batch) (StepResult, []InsertedKey, error) {
	step := StepResult{Table: def.Info.Key, File: batch.File, Read: batch.Len()}

	rec, err := im.engine.Reconcile(ctx, def, batch)
	if err != nil {
		return step, nil, fmt.Errorf("reconcile %s: %w", batch.File, err)
	}
	step.Report = rec.Report
	im.printReport(rec.Report)

	written, err := im.writer.Append(ctx, def, rec.Resolved)
	if err != nil {
		return step, nil, fmt.Errorf("import %s: %w", batch.File, err)
	}
	step.Inserted = len(written.Inserted)

	return step, written.Inserted, nil
}

func (im *Importer) finishStep(ctx context.Context, step *StepResult, start time.Time) {
	step.Duration = time.Since(start)

	byDomain := step.Report.CountByDomain()
	unresolved := make(map[string]int, len(byDomain))
	for d, n := range byDomain {
		unresolved[string(d)] = n
	}
	im.metrics.RecordStep(step.Table, step.Read, step.Inserted, unresolved, step.Duration)

	logging.WithFields(ctx, "table", step.Table, "file", step.File).Info("import step complete",
		"read", step.Read,
		"inserted", step.Inserted,
		"unresolved", step.Report.Rows(),
		"duration", step.Duration,
	)
}

func (im *Importer) printReport(report Report) {
	if len(report) == 0 {
		return
	}
	fmt.Fprintf(im.out, "%d rows skipped, unresolved keys:\n", report.Rows())
	for _, u := range report {
		fmt.Fprintf(im.out, "  %s\n", u)
	}
}

// resultsName returns the results file name without directory and extension.
func resultsName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
