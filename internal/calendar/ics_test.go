package calendar_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/rabank/astro-calculator/internal/calendar"
	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/dasha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	birth = time.Date(1990, 6, 15, 5, 30, 0, 0, time.UTC)
	now   = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
)

func timeline(t *testing.T) dasha.Timeline {
	t.Helper()
	// Moon at 45°: Rohini, Moon Mahadasha first.
	tl, err := dasha.Generate(45, birth, 120)
	require.NoError(t, err)
	return tl
}

func TestBuild_OneEventPerPeriod(t *testing.T) {
	tl := timeline(t)

	data, err := calendar.Build(tl, "Test Native", now)
	require.NoError(t, err)

	want := 0
	for _, m := range tl.Periods {
		want += 1 + len(m.Sub)
	}

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	assert.Len(t, cal.Events(), want)

	name, err := cal.Props.Text(config.PropXWRCalName)
	require.NoError(t, err)
	assert.Equal(t, "Vimshottari Dasha: Test Native", name)
	prop := cal.Props.Get(config.PropXWRCalName)
	require.NotNil(t, prop)
	assert.Empty(t, prop.Params.Get(ical.ParamValue), "the calendar name carries no VALUE param")

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "X-WR-CALNAME:Vimshottari Dasha: Test Native")
	assert.Contains(t, ics, "SUMMARY:Moon Mahadasha")
	assert.Contains(t, ics, "SUMMARY:Moon / Mars Antardasha")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:19900615")
	assert.Contains(t, ics, "DTSTAMP:20260102T030405Z")
	assert.Contains(t, ics, "CATEGORIES:MAHADASHA")
	assert.Contains(t, ics, "DESCRIPTION:Age 0.00 to 6.25 years")
}

func TestBuild_StableUIDs(t *testing.T) {
	tl := timeline(t)

	first, err := calendar.Build(tl, "Test Native", now)
	require.NoError(t, err)
	second, err := calendar.Build(tl, "Test Native", now.Add(time.Hour))
	require.NoError(t, err)

	uids := func(data []byte) []string {
		var out []string
		for _, line := range strings.Split(string(data), "\r\n") {
			if strings.HasPrefix(line, "UID:") {
				out = append(out, line)
			}
		}
		return out
	}

	a, b := uids(first), uids(second)
	require.NotEmpty(t, a)
	assert.Equal(t, a, b, "UIDs must not depend on the stamp")

	seen := make(map[string]bool, len(a))
	for _, u := range a {
		assert.False(t, seen[u], "duplicate %s", u)
		seen[u] = true
		assert.True(t, strings.HasSuffix(u, "@astro-calculator"))
	}
}

func TestBuild_EmptyTimeline(t *testing.T) {
	_, err := calendar.Build(dasha.Timeline{}, "", now)
	assert.ErrorIs(t, err, calendar.ErrEmptyTimeline)
}

func TestBuild_DefaultName(t *testing.T) {
	data, err := calendar.Build(timeline(t), "", now)
	require.NoError(t, err)
	assert.Contains(t, string(data), "X-WR-CALNAME:Vimshottari Dasha\r\n")

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	name, err := cal.Props.Text(config.PropXWRCalName)
	require.NoError(t, err)
	assert.Equal(t, config.ICalCalName, name)
}
