// Package calendar computes fiscal-year boundaries and week numbers for a
// company's planning calendar. A fiscal year begins on the first Monday on or
// after the 1st of the configured start month (January or April) and is
// divided into 1-based 7-day weeks.
//
// All arithmetic happens on calendar dates anchored to UTC midnight. Wall
// clocks and timezones never enter the calculation, so daylight-saving
// transitions cannot shift a day count.
package calendar

import (
	"fmt"
	"time"
)

// TotalWeeks is the number of weeks rendered for one fiscal year.
const TotalWeeks = 52

// StartMonth is the month a company's fiscal year begins in.
type StartMonth string

const (
	StartJanuary StartMonth = "January"
	StartApril   StartMonth = "April"
)

// DefaultStartMonth applies to profiles without a company affiliation.
const DefaultStartMonth = StartApril

// Valid reports whether m is one of the supported start months.
func (m StartMonth) Valid() bool {
	return m == StartJanuary || m == StartApril
}

// ParseStartMonth validates a raw start-month string.
func ParseStartMonth(s string) (StartMonth, error) {
	m := StartMonth(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid calendar start month %q", s)
	}
	return m, nil
}

func (m StartMonth) month() time.Month {
	if m == StartJanuary {
		return time.January
	}
	return time.April
}

// Context bundles everything the week selector and year-calendar views need
// for a given date under a given fiscal configuration.
type Context struct {
	WeekNumber      int       `json:"week_number"`
	FiscalYearStart time.Time `json:"fiscal_year_start"`
	FiscalYearLabel string    `json:"fiscal_year_label"`
	TotalWeeks      int       `json:"total_weeks"`
}

// midnightUTC collapses t to UTC midnight of its calendar date. The date is
// taken from t's own location so callers may pass local times.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FiscalYearStart returns the date the fiscal year beginning in `year` starts
// on: the first Monday on or after the 1st of the start month. The result is
// always a Monday between the 1st and the 7th of that month.
func FiscalYearStart(year int, startMonth StartMonth) time.Time {
	first := time.Date(year, startMonth.month(), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset)
}

// FiscalYearDetails resolves which fiscal year the given date falls in. Dates
// before the current calendar year's start belong to the previous fiscal
// year. The label names the span: "Jan 2024 - Dec 2024" for January starts,
// "April 2024 - March 2025" for April starts.
func FiscalYearDetails(today time.Time, startMonth StartMonth) (start time.Time, label string) {
	day := midnightUTC(today)
	year := day.Year()

	start = FiscalYearStart(year, startMonth)
	if day.Before(start) {
		year--
		start = FiscalYearStart(year, startMonth)
	}

	if startMonth == StartJanuary {
		label = fmt.Sprintf("Jan %d - Dec %d", year, year)
	} else {
		label = fmt.Sprintf("April %d - March %d", year, year+1)
	}
	return start, label
}

// WeekNumber returns the 1-based index of the 7-day period containing the
// given date, counted from the active fiscal year's start. The result is
// clamped to a minimum of 1.
func WeekNumber(today time.Time, startMonth StartMonth) int {
	day := midnightUTC(today)
	start, _ := FiscalYearDetails(day, startMonth)

	diffDays := int(day.Sub(start).Hours() / 24)
	week := diffDays/7 + 1
	if week < 1 {
		week = 1
	}
	return week
}

// ContextFor computes the full calendar context for a date.
func ContextFor(today time.Time, startMonth StartMonth) Context {
	start, label := FiscalYearDetails(today, startMonth)
	return Context{
		WeekNumber:      WeekNumber(today, startMonth),
		FiscalYearStart: start,
		FiscalYearLabel: label,
		TotalWeeks:      TotalWeeks,
	}
}
