package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/standings/internal/logging"
)

// ReadCSV opens path and reads it into a batch for def.
// Every problem with the file is returned as a *SourceError.
func ReadCSV(ctx context.Context, path string, def TableDefinition) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceErr(path, 0, err)
	}
	defer f.Close()

	return ParseCSV(ctx, f, path, def)
}

// ParseCSV reads CSV data from r into a batch for def. name identifies the
// source in errors and reports.
//
// The first non-empty row is the header. Blank rows are skipped. A source
// with no rows at all yields an empty batch.
func ParseCSV(ctx context.Context, r io.Reader, name string, def TableDefinition) (*Batch, error) {
	counter := WrapForStreaming(r)
	reader := csv.NewReader(counter)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	batch := &Batch{Table: def.Info.Key, File: name}

	var headerIdx HeaderIndex

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, sourceErr(name, parseErr.Line, fmt.Errorf("invalid csv: %w", err))
			}
			return nil, sourceErr(name, 0, err)
		}

		if isEmptyRow(row) {
			continue
		}

		line, _ := reader.FieldPos(0)

		if headerIdx == nil {
			headerIdx, err = checkHeader(row, def)
			if err != nil {
				return nil, sourceErr(name, line, err)
			}
			continue
		}

		if err := checkRow(row, headerIdx, def.FieldSpecs); err != nil {
			return nil, sourceErr(name, line, err)
		}

		rec, err := def.BuildRecord(row, headerIdx)
		if err != nil {
			return nil, sourceErr(name, line, fmt.Errorf("%w: %w", ErrInvalidRow, err))
		}
		rec.Line = line
		batch.Records = append(batch.Records, rec)
	}

	logging.FromContext(ctx).Debug("source read",
		"file", name,
		"table", def.Info.Key,
		"rows", len(batch.Records),
		"bytes", counter.BytesRead,
	)

	return batch, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
