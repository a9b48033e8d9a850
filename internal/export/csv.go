// Package export projects a thread's field history and entries into a flat
// CSV table.
package export

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/nvetter/fieldline/internal/domain"
)

// Column is one column of a thread export: a header and the field whose
// values fill it.
type Column struct {
	Header  string
	FieldID string
}

// Columns computes the export column layout. The column set is the union of
// every field, soft-deleted ones included, with at least one bound value.
// A group contributes no column of its own; each of its bound children
// contributes one named "<Group>.<Child>", and grouped columns stay
// contiguous. Ungrouped columns interleave by their own top-level order.
func Columns(fields []domain.Field, values []domain.FieldValue) []Column {
	bound := make(map[string]bool, len(values))
	for _, v := range values {
		bound[v.FieldID] = true
	}

	var tops []domain.Field
	children := make(map[string][]domain.Field)
	for _, f := range fields {
		if f.ParentFieldID == nil {
			tops = append(tops, f)
		} else {
			children[*f.ParentFieldID] = append(children[*f.ParentFieldID], f)
		}
	}
	sortByOrder(tops)
	for _, cs := range children {
		sortByOrder(cs)
	}

	var cols []Column
	for _, f := range tops {
		if f.IsGroup {
			for _, c := range children[f.ID] {
				if bound[c.ID] {
					cols = append(cols, Column{
						Header:  f.Name + "." + c.Name,
						FieldID: c.ID,
					})
				}
			}
			continue
		}
		if bound[f.ID] {
			cols = append(cols, Column{Header: f.Name, FieldID: f.ID})
		}
	}
	return cols
}

// Render serializes the thread's entries against the computed column layout.
// Entries must already be in chronological order; a missing value yields an
// empty cell. Escaping follows standard CSV conventions.
func Render(fields []domain.Field, entries []*domain.Entry, values []domain.FieldValue) (string, error) {
	cols := Columns(fields, values)
	if len(cols) == 0 {
		return "", nil
	}

	byEntry := make(map[string]map[string]string)
	for _, v := range values {
		m, ok := byEntry[v.EntryID]
		if !ok {
			m = make(map[string]string)
			byEntry[v.EntryID] = m
		}
		m[v.FieldID] = v.Value
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}

	row := make([]string, len(cols))
	for _, e := range entries {
		for i, c := range cols {
			row[i] = byEntry[e.ID][c.FieldID]
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing csv row for entry %s: %w", e.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return sb.String(), nil
}

// sortByOrder sorts fields by stored order, breaking ties by creation time so
// soft-deleted fields holding stale orders sort deterministically.
func sortByOrder(fields []domain.Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		if !fields[i].CreatedAt.Equal(fields[j].CreatedAt) {
			return fields[i].CreatedAt.Before(fields[j].CreatedAt)
		}
		return fields[i].ID < fields[j].ID
	})
}
