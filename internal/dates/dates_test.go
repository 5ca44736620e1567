package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 31, 15, 4, 5, 0, time.UTC)
	tbl := NewTable(now)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := map[string]time.Time{
		"today":              day(2024, time.January, 31),
		"yesterday":          day(2024, time.January, 30),
		"tomorrow":           day(2024, time.February, 1),
		"month ago":          day(2023, time.December, 31),
		"three months ago":   day(2023, time.October, 31),
		"year ago":           day(2023, time.January, 31),
		"month ahead":        day(2024, time.February, 29),
		"three months ahead": day(2024, time.April, 30),
		"year ahead":         day(2024, time.April, 30),
	}
	for phrase, want := range tests {
		got, err := tbl.Resolve(phrase)
		require.NoError(t, err, phrase)
		assert.Equal(t, want, got, phrase)
	}
	assert.Len(t, tbl.Phrases(), len(tests))
}

func TestResolveClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	tbl := NewTable(time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC))
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

	tests := map[string]time.Time{
		"month ago":          day(time.February, 28),
		"month ahead":        day(time.April, 30),
		"three months ago":   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		"three months ahead": day(time.June, 30),
		"year ago":           time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
	for phrase, want := range tests {
		got, err := tbl.Resolve(phrase)
		require.NoError(t, err, phrase)
		assert.Equal(t, want, got, phrase)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tbl := NewTable(time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC))

	got, err := tbl.Parse("tomorrow")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC), got)

	got, err = tbl.Parse("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = tbl.Parse("2024-03-05 17:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), got, "time of day is dropped")

	_, err = tbl.Parse("next eon")
	var perr *UnknownPhraseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "next eon", perr.Phrase)
}

func TestResolveTodayIsInitDate(t *testing.T) {
	t.Parallel()

	got, err := Default.Resolve("today")
	require.NoError(t, err)
	assert.Equal(t, Default.Today(), got)
	assert.Zero(t, got.Hour())
}

func TestResolveUnknown(t *testing.T) {
	t.Parallel()

	_, err := Default.Resolve("unknown phrase")
	var perr *UnknownPhraseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "unknown phrase", perr.Phrase)
}

func TestNewTableAt(t *testing.T) {
	t.Parallel()

	tbl, err := NewTableAt("2024-02-29", time.UTC)
	require.NoError(t, err)

	got, err := tbl.Resolve("year ago")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), got)

	_, err = NewTableAt("not a date", time.UTC)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "05.03.2024", Format(d, "", ""))
	assert.Equal(t, "2024-03-05", Format(d, "2006-01-02", ""))
	assert.Equal(t, "5 March 2024", Format(d, "2 January 2006", "en_US"))
	assert.Equal(t, "5 März 2024", Format(d, "2 January 2006", "de_DE"))
}
