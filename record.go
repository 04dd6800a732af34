package main

import (
	"strings"
	"time"
)

// Medication — одно лекарство пользователя с расписанием приёма.
// Acknowledged хранит дату последней отметки приёма по каждому времени,
// LastReminderTime — момент последней отправки напоминания (RFC 3339).
type Medication struct {
	Name             string            `json:"name"`
	Dosage           string            `json:"dosage"`
	Times            []string          `json:"times"`
	Acknowledged     map[string]string `json:"acknowledged"`
	LastReminderTime string            `json:"last_reminder_time,omitempty"`
}

// User хранит настройки пользователя и его лекарства
type User struct {
	ChatID      int64
	Timezone    string
	Language    string
	Medications []Medication
}

// NewUser возвращает запись с настройками по умолчанию
func NewUser(chatID int64, defaultLang string) *User {
	return &User{
		ChatID:      chatID,
		Timezone:    "UTC",
		Language:    defaultLang,
		Medications: []Medication{},
	}
}

// AddMedication добавляет лекарство в конец списка
func (u *User) AddMedication(name, dosage string, times []string) {
	u.Medications = append(u.Medications, Medication{
		Name:         name,
		Dosage:       dosage,
		Times:        times,
		Acknowledged: map[string]string{},
	})
}

// DeleteMedication удаляет все лекарства с указанным именем
// (без учёта регистра) и возвращает число удалённых.
func (u *User) DeleteMedication(name string) int {
	kept := u.Medications[:0]
	removed := 0
	for _, med := range u.Medications {
		if strings.EqualFold(med.Name, name) {
			removed++
			continue
		}
		kept = append(kept, med)
	}
	u.Medications = kept
	return removed
}

// Acknowledge отмечает приём лекарства за сегодняшнюю локальную дату.
// Имя сравнивается без учёта регистра, время должно входить в расписание.
// Возвращает false без изменения записи, если пара не найдена.
func (u *User) Acknowledge(medName, fireTime string, nowUTC time.Time) bool {
	nowLocal, _ := localNow(nowUTC, u.Timezone)
	today := nowLocal.Format(dateLayout)

	for i := range u.Medications {
		med := &u.Medications[i]
		if !strings.EqualFold(med.Name, medName) {
			continue
		}
		for _, t := range med.Times {
			if t == fireTime {
				if med.Acknowledged == nil {
					med.Acknowledged = map[string]string{}
				}
				med.Acknowledged[fireTime] = today
				return true
			}
		}
	}
	return false
}
