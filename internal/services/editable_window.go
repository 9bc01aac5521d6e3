package services

import (
	"errors"
	"time"
)

var ErrEditableWindowInverted = errors.New("oldest editable period is after latest editable period")

// PeriodBound is either a period start or no restriction.
type PeriodBound struct {
	period Period
	set    bool
}

var Unrestricted = PeriodBound{}

func BoundAt(period Period) PeriodBound {
	return PeriodBound{period: period, set: true}
}

// PeriodBoundFromTime maps a stored nullable date onto a bound, normalized to its period start.
func PeriodBoundFromTime(value *time.Time) PeriodBound {
	if value == nil {
		return Unrestricted
	}
	return BoundAt(PeriodFor(*value))
}

func (bound PeriodBound) IsUnrestricted() bool {
	return !bound.set
}

func (bound PeriodBound) Period() (Period, bool) {
	return bound.period, bound.set
}

func (bound PeriodBound) TimePtr() *time.Time {
	if !bound.set {
		return nil
	}
	start := bound.period.Start
	return &start
}

// String renders the bound as an ISO date or an empty string when unrestricted.
func (bound PeriodBound) String() string {
	if !bound.set {
		return ""
	}
	return bound.period.Value()
}

type EditableWindow struct {
	Oldest PeriodBound
	Latest PeriodBound
}

func (window EditableWindow) Validate() error {
	oldest, hasOldest := window.Oldest.Period()
	latest, hasLatest := window.Latest.Period()
	if hasOldest && hasLatest && oldest.Start.After(latest.Start) {
		return ErrEditableWindowInverted
	}
	return nil
}

// Allows reports whether the period containing day lies inside the window.
func (window EditableWindow) Allows(day time.Time) bool {
	period := PeriodFor(day)
	if oldest, ok := window.Oldest.Period(); ok && period.Start.Before(oldest.Start) {
		return false
	}
	if latest, ok := window.Latest.Period(); ok && period.Start.After(latest.Start) {
		return false
	}
	return true
}
