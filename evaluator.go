package main

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// localNow переводит момент UTC в зону пользователя.
// Неизвестная зона не фатальна: возвращается UTC и ok=false.
func localNow(nowUTC time.Time, tz string) (local time.Time, ok bool) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nowUTC.UTC(), false
	}
	return nowUTC.In(loc), true
}

// isDue решает, пора ли отправлять напоминание для одного времени приёма.
//
// Не пора, если приём уже отмечен сегодня, если напоминание уже уходило
// сегодня (по локальной дате lastReminder), или если локальное время ещё
// не дошло до fireTime. Верхней границы нет: пропущенное напоминание
// остаётся актуальным до конца локального дня.
//
// Нечитаемый lastReminder считается отсутствующим. Нечитаемый fireTime —
// ошибка: такое время никогда не срабатывает.
func isDue(nowLocal time.Time, fireTime, ackDate, lastReminder string) (bool, error) {
	today := nowLocal.Format(dateLayout)

	if ackDate == today {
		return false, nil
	}

	if lastReminder != "" {
		if last, err := time.Parse(time.RFC3339, lastReminder); err == nil {
			if last.In(nowLocal.Location()).Format(dateLayout) == today {
				return false, nil
			}
		}
	}

	ft, err := time.Parse(timeLayout, fireTime)
	if err != nil {
		return false, fmt.Errorf("parse fire time %q: %w", fireTime, err)
	}

	scheduled := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
		ft.Hour(), ft.Minute(), 0, 0, nowLocal.Location())

	return !nowLocal.Before(scheduled), nil
}
