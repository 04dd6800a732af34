package main

import (
	"testing"
	"time"
)

// helper: локальное время в заданной зоне
func mustLocal(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return time.Date(y, m, d, hh, mm, 0, 0, loc)
}

func TestIsDue_BeforeScheduledTime(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 1, 8, 59)
	due, err := isDue(now, "09:00", "", "")
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if due {
		t.Fatal("08:59 must not be due for 09:00")
	}
}

func TestIsDue_AtScheduledTime(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 1, 9, 0)
	due, err := isDue(now, "09:00", "", "")
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if !due {
		t.Fatal("09:00 must be due for 09:00")
	}
}

func TestIsDue_RemainsDueUntilEndOfDay(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 1, 23, 59)
	due, err := isDue(now, "09:00", "", "")
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if !due {
		t.Fatal("missed reminder must stay due for the rest of the day")
	}
}

func TestIsDue_AcknowledgedToday(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 1, 12, 0)
	due, err := isDue(now, "09:00", "2024-01-01", "")
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if due {
		t.Fatal("acknowledged today must not be due")
	}
}

func TestIsDue_AcknowledgedYesterday(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 2, 9, 0)
	due, err := isDue(now, "09:00", "2024-01-01", "")
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if !due {
		t.Fatal("yesterday's acknowledgment must not block today")
	}
}

func TestIsDue_ReminderAlreadySentToday(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 1, 9, 5)
	stamp := mustLocal(t, "UTC", 2024, time.January, 1, 9, 0).Format(time.RFC3339)
	due, err := isDue(now, "09:00", "", stamp)
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if due {
		t.Fatal("reminder already sent today must not fire again")
	}
}

func TestIsDue_ReminderSentYesterday(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 2, 9, 0)
	stamp := mustLocal(t, "UTC", 2024, time.January, 1, 9, 0).Format(time.RFC3339)
	due, err := isDue(now, "09:00", "", stamp)
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if !due {
		t.Fatal("yesterday's stamp must not block today")
	}
}

func TestIsDue_MalformedStampTreatedAsAbsent(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 1, 9, 0)
	due, err := isDue(now, "09:00", "", "not-a-timestamp")
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if !due {
		t.Fatal("unreadable stamp must be treated as absent")
	}
}

func TestIsDue_MalformedFireTime(t *testing.T) {
	now := mustLocal(t, "UTC", 2024, time.January, 1, 12, 0)
	due, err := isDue(now, "9am", "", "")
	if err == nil {
		t.Fatal("malformed fire time must return an error")
	}
	if due {
		t.Fatal("malformed fire time must never be due")
	}
}

func TestIsDue_UserTimezone(t *testing.T) {
	// 04:00 UTC = 09:00 в Екатеринбурге (+05)
	nowLocal, ok := localNow(time.Date(2024, time.January, 1, 4, 0, 0, 0, time.UTC), "Asia/Yekaterinburg")
	if !ok {
		t.Fatal("known timezone must resolve")
	}
	due, err := isDue(nowLocal, "09:00", "", "")
	if err != nil {
		t.Fatalf("isDue: %v", err)
	}
	if !due {
		t.Fatal("09:00 local must be due at 04:00 UTC for UTC+5")
	}
}

func TestLocalNow_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	local, ok := localNow(now, "Mars/Olympus")
	if ok {
		t.Fatal("invalid timezone must report fallback")
	}
	if local.Location() != time.UTC {
		t.Fatalf("want UTC fallback, got %v", local.Location())
	}
	if !local.Equal(now) {
		t.Fatalf("instant must not change: want %v, got %v", now, local)
	}
}
