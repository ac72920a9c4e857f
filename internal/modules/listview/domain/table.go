package domain

import "strings"

// Column is one table header.
type Column struct {
	ID    string
	Label string
}

// Cell is one rendered table cell. Link marks the cell that opens the detail modal.
type Cell struct {
	Text string
	Link bool
}

// Row is a rendered record keyed by the record id.
type Row struct {
	ID    string
	Cells []Cell
}

// Table describes how a screen renders its records.
type Table[T any] struct {
	Columns      []Column
	EmptyMessage string
	Render       func(T) Row
}

// Rows renders records in order.
func (t Table[T]) Rows(records []T) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, t.Render(record))
	}
	return rows
}

// TextOr returns fallback when value is blank.
func TextOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
