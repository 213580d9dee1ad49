// Package timerange resolves symbolic dashboard time ranges into concrete
// inclusive [start, end] calendar-date intervals.
package timerange

import (
	"fmt"
	"time"
)

// Range is a symbolic time range label.
type Range string

const (
	RangeToday      Range = "today"
	RangeYesterday  Range = "yesterday"
	RangeLast7Days  Range = "last_7_days"
	RangeLast30Days Range = "last_30_days"
	RangeThisMonth  Range = "this_month"
	RangeLastMonth  Range = "last_month"
	RangeThisYear   Range = "this_year"
	RangeCustom     Range = "custom"
)

// DateLayout is the wire format for explicit custom bounds.
const DateLayout = "2006-01-02"

// ValidationError reports an invalid range request. It is surfaced to the
// caller before any data is touched.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// TimeProvider abstracts the clock so resolution is testable against a fixed
// reference time.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

func (p *DefaultTimeProvider) Now() time.Time { return time.Now() }

// Resolver maps symbolic ranges to concrete date intervals.
type Resolver struct {
	timeProvider TimeProvider
}

func NewResolver(timeProvider ...TimeProvider) *Resolver {
	var provider TimeProvider = &DefaultTimeProvider{}
	if len(timeProvider) > 0 && timeProvider[0] != nil {
		provider = timeProvider[0]
	}
	return &Resolver{timeProvider: provider}
}

// Resolve returns the inclusive [start, end] calendar dates for the given
// label. Custom ranges require both explicit bounds in YYYY-MM-DD form and are
// never swapped or defaulted when invalid.
func (r *Resolver) Resolve(label Range, customStart, customEnd string) (time.Time, time.Time, error) {
	today := dateOf(r.timeProvider.Now().UTC())

	switch label {
	case RangeToday:
		return today, today, nil
	case RangeYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y, nil
	case RangeLast7Days:
		return today.AddDate(0, 0, -7), today, nil
	case RangeLast30Days:
		return today.AddDate(0, 0, -30), today, nil
	case RangeThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today, nil
	case RangeLastMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		firstOfLast := firstOfThis.AddDate(0, -1, 0)
		return firstOfLast, firstOfThis.AddDate(0, 0, -1), nil
	case RangeThisYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), today, nil
	case RangeCustom:
		return r.resolveCustom(customStart, customEnd)
	}
	return time.Time{}, time.Time{}, &ValidationError{Msg: fmt.Sprintf("unknown time range %q", label)}
}

func (r *Resolver) resolveCustom(customStart, customEnd string) (time.Time, time.Time, error) {
	if customStart == "" || customEnd == "" {
		return time.Time{}, time.Time{}, &ValidationError{Msg: "custom time range requires both start and end dates"}
	}
	start, err := time.Parse(DateLayout, customStart)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Msg: fmt.Sprintf("invalid custom start date %q, expected YYYY-MM-DD", customStart)}
	}
	end, err := time.Parse(DateLayout, customEnd)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Msg: fmt.Sprintf("invalid custom end date %q, expected YYYY-MM-DD", customEnd)}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, &ValidationError{Msg: fmt.Sprintf("custom start date %s is after end date %s", customStart, customEnd)}
	}
	return dateOf(start.UTC()), dateOf(end.UTC()), nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
