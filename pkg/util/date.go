package util

import (
    "time"
)

const (
    tradingDaysPerYear  = 252
    calendarDaysPerYear = 365
)

// DateOnly strips the clock, keeping year/month/day in UTC.
func DateOnly(t time.Time) time.Time {
    u := t.UTC()
    return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CalendarDaysBetween returns whole calendar days from the date of `from`
// to the date of `to`. Negative when `to` falls on an earlier date.
func CalendarDaysBetween(from, to time.Time) int {
    return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// TradingDaysApprox converts calendar days to trading days using the fixed
// 252/365 ratio, truncating toward zero. Models are trained against this
// exact formula; any other rounding silently shifts their feature space.
func TradingDaysApprox(calendarDays int) int {
    return int(float64(calendarDays) * tradingDaysPerYear / calendarDaysPerYear)
}

// DaysInMonth returns the number of days in (year, month), month in 1..12.
func DaysInMonth(year, month int) int {
    return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekdayIndex returns the weekday with Monday=0 .. Sunday=6.
func WeekdayIndex(t time.Time) int {
    return (int(t.Weekday()) + 6) % 7
}
