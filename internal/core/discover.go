package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Data directory layout.
const (
	CompetitorsFile = "players/players.csv"
	EventsDir       = "events"
	ResultsSuffix   = "_results.csv"
)

// CompetitionPair is one competition file and its results file. Results is
// empty when the competition has no results file yet.
type CompetitionPair struct {
	Competition string
	Results     string
}

// Plan lists the files of one import run.
type Plan struct {
	Competitors  string
	Competitions []CompetitionPair
	Unpaired     []string // Results files without a competition file, sorted
}

// Discover builds the plan for a data directory:
//
//	<root>/players/players.csv        competitors
//	<root>/events/**/<name>.csv       one competition each
//	<root>/events/**/<name>_results.csv  results of <name>
//
// Pairs are sorted by competition path. A results file whose competition file
// is missing is listed in Unpaired. A missing competitors file or events
// directory is a source error.
func Discover(root string) (Plan, error) {
	plan := Plan{Competitors: filepath.Join(root, filepath.FromSlash(CompetitorsFile))}

	if _, err := os.Stat(plan.Competitors); err != nil {
		return Plan{}, sourceErr(plan.Competitors, 0, err)
	}

	eventsDir := filepath.Join(root, EventsDir)
	results := make(map[string]string)
	var competitions []string

	err := filepath.WalkDir(eventsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		lower := strings.ToLower(path)
		if strings.HasSuffix(lower, ResultsSuffix) {
			results[lower[:len(lower)-len(ResultsSuffix)]] = path
			return nil
		}
		competitions = append(competitions, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Plan{}, sourceErr(eventsDir, 0, err)
		}
		return Plan{}, sourceErr(eventsDir, 0, fmt.Errorf("walk events: %w", err))
	}

	sort.Strings(competitions)
	for _, path := range competitions {
		base := strings.ToLower(strings.TrimSuffix(path, filepath.Ext(path)))
		plan.Competitions = append(plan.Competitions, CompetitionPair{
			Competition: path,
			Results:     results[base],
		})
		delete(results, base)
	}

	for _, path := range results {
		plan.Unpaired = append(plan.Unpaired, path)
	}
	sort.Strings(plan.Unpaired)

	return plan, nil
}
