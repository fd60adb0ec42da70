// Package calendar exports a Vimshottari timeline as an iCalendar feed so the
// periods can be followed in any calendar client.
package calendar

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/dasha"
)

// ErrEmptyTimeline is returned for a timeline without periods.
var ErrEmptyTimeline = errors.New(config.ErrEmptyTimeline)

// Build renders the timeline as an iCalendar document. name labels the
// calendar and seeds the event UIDs; now stamps every event.
func Build(tl dasha.Timeline, name string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, tl, name, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes one all-day event per Mahadasha and per Antardasha.
func Encode(w io.Writer, tl dasha.Timeline, name string, now time.Time) error {
	if len(tl.Periods) == 0 {
		return ErrEmptyTimeline
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)
	calName := config.ICalCalName
	if name != "" {
		calName = fmt.Sprintf(config.ICalCalNameOf, name)
	}
	// Set the value manually to avoid the "VALUE=TEXT" param on an X- property.
	calNameProp := ical.NewProp(config.PropXWRCalName)
	calNameProp.Value = calName
	cal.Props.Set(calNameProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, maha := range tl.Periods {
		summary := fmt.Sprintf(config.FormatMahaSummary, maha.Lord)
		event := newEvent(name, maha.Lord.String(), summary, config.CategoryMahadasha, maha)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)

		for _, antar := range maha.Sub {
			summary := fmt.Sprintf(config.FormatAntarSummary, maha.Lord, antar.Lord)
			event := newEvent(name, maha.Lord.String()+"/"+antar.Lord.String(), summary, config.CategoryAntardasha, antar)
			event.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyPeriods, len(tl.Periods),
		config.LogKeyCount, len(cal.Children),
	)
	return nil
}

func newEvent(name, path, summary, category string, p dasha.Period) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid(name, path, p.Start))
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropDescription, fmt.Sprintf(config.FormatPeriodDesc, p.AgeStart, p.AgeEnd))
	event.Props.SetText(config.PropCategories, category)

	start, end := allDay(p.Start), allDay(p.End)
	// DTEND is exclusive for dates; a period shorter than a day still gets one.
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(start)
	event.Props.Set(dtStartProp)

	dtEndProp := ical.NewProp(config.PropDTEnd)
	dtEndProp.SetDate(end)
	event.Props.Set(dtEndProp)

	return event
}

// uid is stable across refreshes of the same timeline.
func uid(name, path string, start time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, name, path, start.UTC().Format(config.TimestampFormat), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

func allDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
