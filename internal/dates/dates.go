// Package dates maps relative-date phrases such as "tomorrow" or
// "three months ago" to calendar dates fixed at process start.
package dates

import (
	"fmt"
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
)

// DefaultLayout is used by Format when no layout is given
const DefaultLayout = "02.01.2006"

// UnknownPhraseError is returned for phrases outside the table
type UnknownPhraseError struct {
	Phrase string
}

func (e *UnknownPhraseError) Error() string {
	return fmt.Sprintf("unknown date phrase %q", e.Phrase)
}

// Table is an immutable phrase to date mapping
type Table struct {
	now     time.Time
	entries map[string]time.Time
}

// Default is computed once from the process start time
var Default = NewTable(time.Now())

// NewTable derives the phrase table from now. Dates are truncated to midnight
// in now's location.
func NewTable(now time.Time) *Table {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return &Table{
		now: today,
		entries: map[string]time.Time{
			"yesterday":          today.AddDate(0, 0, -1),
			"tomorrow":           today.AddDate(0, 0, 1),
			"today":              today,
			"month ago":          addMonths(today, -1),
			"three months ago":   addMonths(today, -3),
			"year ago":           addMonths(today, -12),
			"month ahead":        addMonths(today, 1),
			"three months ahead": addMonths(today, 3),
			// TODO: confirm with suite owners whether "year ahead" should be
			// +1 year; scenarios have always seen +3 months here.
			"year ahead": addMonths(today, 3),
		},
	}
}

// addMonths shifts d by n calendar months, clamping the day to the last day
// of the target month (Jan 31 + 1 month is Feb 29 in a leap year).
func addMonths(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(d.Day(), last)-1)
}

// NewTableAt builds a table pinned to a textual instant, e.g. "2024-02-29"
func NewTableAt(instant string, loc *time.Location) (*Table, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := dateparse.ParseIn(instant, loc)
	if err != nil {
		return nil, fmt.Errorf("parse pinned date %q: %w", instant, err)
	}
	return NewTable(t), nil
}

// Today returns the date the table was derived from
func (t *Table) Today() time.Time {
	return t.now
}

// Resolve returns the date for phrase. There is no fallback for unknown phrases.
func (t *Table) Resolve(phrase string) (time.Time, error) {
	d, ok := t.entries[phrase]
	if !ok {
		return time.Time{}, &UnknownPhraseError{Phrase: phrase}
	}
	return d, nil
}

// Parse resolves a phrase from the table and otherwise reads s as a literal
// date ("2024-03-05", "March 5, 2024", ...) in the table's location. When
// neither works the *UnknownPhraseError from the table lookup is returned.
func (t *Table) Parse(s string) (time.Time, error) {
	d, err := t.Resolve(s)
	if err == nil {
		return d, nil
	}
	lit, perr := dateparse.ParseIn(s, t.now.Location())
	if perr != nil {
		return time.Time{}, err
	}
	return time.Date(lit.Year(), lit.Month(), lit.Day(), 0, 0, 0, 0, t.now.Location()), nil
}

// Parse is Default.Parse
func Parse(s string) (time.Time, error) {
	return Default.Parse(s)
}

// Phrases lists the known phrases, sorted
func (t *Table) Phrases() []string {
	out := make([]string, 0, len(t.entries))
	for p := range t.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Format renders d with a Go layout, translating month and day names into locale
// (for example "ru_RU" or "de_DE"). An empty locale means en_US.
func Format(d time.Time, layout, locale string) string {
	if layout == "" {
		layout = DefaultLayout
	}
	if locale == "" {
		return d.Format(layout)
	}
	return monday.Format(d, layout, monday.Locale(locale))
}
