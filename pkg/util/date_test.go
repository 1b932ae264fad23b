package util

import (
    "testing"
    "time"
)

func TestTradingDaysApprox(t *testing.T) {
    cases := map[int]int{0: 0, 1: 0, 2: 1, 365: 252, 730: 504, 100: 69}
    for days, want := range cases {
        if got := TradingDaysApprox(days); got != want {
            t.Fatalf("TradingDaysApprox(%d) = %d, want %d", days, got, want)
        }
    }
}

func TestCalendarDaysBetween(t *testing.T) {
    from := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
    to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
    if got := CalendarDaysBetween(from, to); got != 14 {
        t.Fatalf("expected 14 days, got %d", got)
    }
    // same date with later clock still counts as zero days
    sameDay := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
    if got := CalendarDaysBetween(from, sameDay); got != 0 {
        t.Fatalf("expected 0 days, got %d", got)
    }
    if got := CalendarDaysBetween(to, from); got != -14 {
        t.Fatalf("expected -14 days, got %d", got)
    }
}

func TestDaysInMonth(t *testing.T) {
    if got := DaysInMonth(2025, 2); got != 28 {
        t.Fatalf("feb 2025: got %d", got)
    }
    if got := DaysInMonth(2024, 2); got != 29 {
        t.Fatalf("feb 2024: got %d", got)
    }
    if got := DaysInMonth(2026, 12); got != 31 {
        t.Fatalf("dec 2026: got %d", got)
    }
}

func TestWeekdayIndex(t *testing.T) {
    // 2026-03-15 is a Sunday
    sun := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
    if got := WeekdayIndex(sun); got != 6 {
        t.Fatalf("sunday index: got %d", got)
    }
    mon := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
    if got := WeekdayIndex(mon); got != 0 {
        t.Fatalf("monday index: got %d", got)
    }
}
