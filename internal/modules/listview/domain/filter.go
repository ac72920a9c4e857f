package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownField     = errors.New("unknown filter field")
	ErrInvalidDateRange = errors.New("date range start is after end")
)

// Field names one filterable column of a record. Values may return several strings (e.g. a product
// name and its category name); a record matches when any of them contains the search term.
type Field[T any] struct {
	Key    string
	Label  string
	Values func(T) []string
}

// FilterState captures the user's search inputs. Nothing is applied until ApplyFilter runs.
type FilterState struct {
	Term      string
	Field     string
	DateStart *time.Time
	DateEnd   *time.Time
}

// HasDateRange reports whether either end of the date range is set.
func (f FilterState) HasDateRange() bool {
	return f.DateStart != nil || f.DateEnd != nil
}

// ValidateDateRange rejects a start that falls after the end when both are present.
func ValidateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && truncateDay(*start).After(truncateDay(*end)) {
		return ErrInvalidDateRange
	}
	return nil
}

// LookupField returns the field registered under key (case-insensitive).
func LookupField[T any](fields []Field[T], key string) (Field[T], bool) {
	trimmed := strings.TrimSpace(key)
	for _, field := range fields {
		if strings.EqualFold(field.Key, trimmed) {
			return field, true
		}
	}
	return Field[T]{}, false
}

// ContainsFold is a case-insensitive substring test. An empty needle always matches.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// InDateRange reports whether at falls inside the inclusive day range. Nil bounds are open.
func InDateRange(at time.Time, start, end *time.Time) bool {
	day := truncateDay(at)
	if start != nil && day.Before(truncateDay(*start)) {
		return false
	}
	if end != nil && day.After(truncateDay(*end)) {
		return false
	}
	return true
}

// ApplyFilter projects records through the filter state. The term is matched as given, spaces
// included. The result never aliases records and keeps the snapshot order. dateOf may be nil for record types without a date column.
func ApplyFilter[T any](records []T, fields []Field[T], state FilterState, dateOf func(T) (time.Time, bool)) ([]T, error) {
	term := state.Term
	var field Field[T]
	if term != "" {
		var ok bool
		field, ok = LookupField(fields, state.Field)
		if !ok {
			return nil, ErrUnknownField
		}
	}
	useDates := dateOf != nil && state.HasDateRange()

	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if term != "" && !matchesAny(field.Values(record), term) {
			continue
		}
		if useDates {
			at, ok := dateOf(record)
			if !ok || !InDateRange(at, state.DateStart, state.DateEnd) {
				continue
			}
		}
		filtered = append(filtered, record)
	}
	return filtered, nil
}

func matchesAny(values []string, term string) bool {
	for _, value := range values {
		if ContainsFold(value, term) {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
