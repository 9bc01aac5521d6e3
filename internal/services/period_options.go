package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	periodDateLayout     = "2006-01-02"
	secondHalfStartDay   = 16
	periodWindowBackward = 12
	periodWindowForward  = 6
)

var ErrInvalidPeriodStart = errors.New("invalid period start")

// Period is a half-month window identified by its start date (the 1st or the 16th).
type Period struct {
	Start time.Time
}

type PeriodOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PeriodFor returns the half-month period containing day.
func PeriodFor(day time.Time) Period {
	year, month, date := day.Date()
	startDay := 1
	if date >= secondHalfStartDay {
		startDay = secondHalfStartDay
	}
	return Period{Start: time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC)}
}

// ParsePeriodStart accepts only ISO dates that fall on the 1st or the 16th of a month.
func ParsePeriodStart(raw string) (Period, error) {
	parsed, err := time.Parse(periodDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodStart, raw)
	}
	if day := parsed.Day(); day != 1 && day != secondHalfStartDay {
		return Period{}, fmt.Errorf("%w: %q is not the 1st or the 16th", ErrInvalidPeriodStart, raw)
	}
	return Period{Start: parsed.UTC()}, nil
}

func (period Period) IsFirstHalf() bool {
	return period.Start.Day() == 1
}

// End returns the last calendar day of the period.
func (period Period) End() time.Time {
	year, month, _ := period.Start.Date()
	if period.IsFirstHalf() {
		return time.Date(year, month, secondHalfStartDay-1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, month, lastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC)
}

func (period Period) Next() Period {
	return Period{Start: period.End().AddDate(0, 0, 1)}
}

func (period Period) Value() string {
	return period.Start.Format(periodDateLayout)
}

func (period Period) Label() string {
	return fmt.Sprintf("%s %d (%s - %s)",
		period.Start.Month(),
		period.Start.Year(),
		ordinal(period.Start.Day()),
		ordinal(period.End().Day()),
	)
}

func (period Period) Contains(day time.Time) bool {
	return PeriodFor(day).Start.Equal(period.Start)
}

// Days lists every calendar day of the period in order.
func (period Period) Days() []time.Time {
	end := period.End()
	days := make([]time.Time, 0, end.Day()-period.Start.Day()+1)
	for day := period.Start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func (period Period) Option() PeriodOption {
	return PeriodOption{Value: period.Value(), Label: period.Label()}
}

// GeneratePeriodOptions lists both halves of every month from twelve months before
// the month of now through six months after it.
func GeneratePeriodOptions(now time.Time) []PeriodOption {
	year, month, _ := now.Date()
	options := make([]PeriodOption, 0, (periodWindowBackward+periodWindowForward+1)*2)
	for offset := -periodWindowBackward; offset <= periodWindowForward; offset++ {
		monthStart := time.Date(year, month+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		first := Period{Start: monthStart}
		second := Period{Start: monthStart.AddDate(0, 0, secondHalfStartDay-1)}
		options = append(options, first.Option(), second.Option())
	}
	return options
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func ordinal(day int) string {
	suffix := "th"
	switch {
	case day%100 >= 11 && day%100 <= 13:
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", day, suffix)
}
