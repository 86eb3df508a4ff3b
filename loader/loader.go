// Package loader reads staged SLA export directories into raw tables and
// merges the two comparison periods into one provenance-tagged table.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sla-pipeline/errors"
	"sla-pipeline/models"
)

// LoadDirectory reads every CSV file directly under path (non-recursive)
// and concatenates the rows. A missing directory or a directory with no
// CSV files yields an empty table, not an error: the merger decides
// whether having no data at all is a problem.
//
// All files in one directory must share a column set. Header order may
// differ between files; a differing column set is a loud failure, since
// silently dropping or nulling columns would corrupt every aggregate
// downstream.
func LoadDirectory(path string) (models.Table, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Table{}, nil
		}
		return models.Table{}, fmt.Errorf("reading directory %s: %w", path, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)

	var table models.Table
	for _, file := range files {
		if err := appendFile(&table, file); err != nil {
			return models.Table{}, err
		}
	}
	return table, nil
}

// appendFile reads one CSV file and appends its rows to the table,
// remapping columns when the file's header order differs from the first
// file's.
func appendFile(table *models.Table, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	if len(rows) == 0 {
		// Header-less empty file contributes nothing.
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	if table.Columns == nil {
		table.Columns = header
		table.SourceFiles = append(table.SourceFiles, file)
		table.Rows = append(table.Rows, rows[1:]...)
		return nil
	}

	remap, err := columnRemap(table.Columns, header, file)
	if err != nil {
		return err
	}
	table.SourceFiles = append(table.SourceFiles, file)
	for _, row := range rows[1:] {
		out := make([]string, len(table.Columns))
		for i := range table.Columns {
			out[i] = row[remap[i]]
		}
		table.Rows = append(table.Rows, out)
	}
	return nil
}

// columnRemap maps canonical column positions to this file's positions.
// The two headers must contain the same column names.
func columnRemap(canonical, header []string, file string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	if len(header) != len(canonical) {
		return nil, &errors.SchemaError{
			File:   file,
			Column: firstDifference(canonical, index),
			Err:    errors.ErrColumnMismatch,
		}
	}
	remap := make([]int, len(canonical))
	for i, c := range canonical {
		j, ok := index[c]
		if !ok {
			return nil, &errors.SchemaError{File: file, Column: c, Err: errors.ErrColumnMismatch}
		}
		remap[i] = j
	}
	return remap, nil
}

func firstDifference(canonical []string, index map[string]int) string {
	for _, c := range canonical {
		if _, ok := index[c]; !ok {
			return c
		}
	}
	return ""
}

// LoadPeriods loads the two comparison windows through the cache, tags
// every row with its period of origin, and concatenates them. Duplicate
// files or overlapping dates across the two directories are not detected;
// staging owns disjointness. When neither window contributes a single row
// the result is ErrNoData.
func LoadPeriods(cache *Cache, currentDir, beforeDir string) (models.Table, error) {
	current, err := cache.Directory(currentDir)
	if err != nil {
		return models.Table{}, err
	}
	before, err := cache.Directory(beforeDir)
	if err != nil {
		return models.Table{}, err
	}

	merged := models.Table{}
	if err := appendPeriod(&merged, current, models.PeriodCurrent); err != nil {
		return models.Table{}, err
	}
	if err := appendPeriod(&merged, before, models.PeriodBefore); err != nil {
		return models.Table{}, err
	}
	if merged.Empty() {
		return models.Table{}, errors.ErrNoData
	}
	return merged, nil
}

// appendPeriod appends a period-tagged copy of t to merged.
func appendPeriod(merged *models.Table, t models.Table, period models.Period) error {
	if t.Empty() {
		return nil
	}

	tagged := append(append([]string{}, t.Columns...), models.PeriodColumn)
	if merged.Columns == nil {
		merged.Columns = tagged
	} else {
		remap, err := columnRemap(merged.Columns, tagged, strings.Join(t.SourceFiles, ", "))
		if err != nil {
			return err
		}
		for _, row := range t.Rows {
			src := append(append([]string{}, row...), string(period))
			out := make([]string, len(merged.Columns))
			for i := range merged.Columns {
				out[i] = src[remap[i]]
			}
			merged.Rows = append(merged.Rows, out)
		}
		merged.SourceFiles = append(merged.SourceFiles, t.SourceFiles...)
		return nil
	}

	for _, row := range t.Rows {
		merged.Rows = append(merged.Rows, append(append([]string{}, row...), string(period)))
	}
	merged.SourceFiles = append(merged.SourceFiles, t.SourceFiles...)
	return nil
}
