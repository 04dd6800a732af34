package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Разделитель и префикс callback-данных кнопки подтверждения.
// Формат: "ack|<название>|<время>".
const (
	ackPrefix    = "ack"
	ackDelimiter = "|"
)

// maxConcurrentSends ограничивает число одновременных отправок на процесс
const maxConcurrentSends = 10

// recordStore — минимальный интерфейс хранилища для обхода напоминаний
type recordStore interface {
	AllUsers(ctx context.Context) ([]User, error)
	SaveUser(ctx context.Context, u *User) error
}

// reminderSender отправляет напоминание с inline-кнопкой подтверждения
type reminderSender interface {
	SendReminder(chatID int64, text, buttonLabel, callbackData string) error
}

// Sweeper обходит все записи пользователей и рассылает напоминания
type Sweeper struct {
	store  recordStore
	sender reminderSender
	msgs   Messages
	log    *zap.Logger
	sem    *semaphore.Weighted
}

func NewSweeper(store recordStore, sender reminderSender, msgs Messages, log *zap.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		sender: sender,
		msgs:   msgs,
		log:    log,
		sem:    semaphore.NewWeighted(maxConcurrentSends),
	}
}

// AckCallbackData собирает callback-данные кнопки подтверждения
func AckCallbackData(medName, fireTime string) string {
	return strings.Join([]string{ackPrefix, medName, fireTime}, ackDelimiter)
}

// ParseAckCallbackData разбирает callback-данные кнопки подтверждения
func ParseAckCallbackData(data string) (medName, fireTime string, ok bool) {
	parts := strings.Split(data, ackDelimiter)
	if len(parts) != 3 || parts[0] != ackPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// Sweep выполняет один обход: для каждого пользователя, лекарства и времени
// приёма решает, пора ли напоминать, ставит метку отправки до подтверждения
// доставки и сохраняет запись один раз, если она изменилась.
// Возвращает число отправленных напоминаний.
func (s *Sweeper) Sweep(ctx context.Context, nowUTC time.Time) int {
	users, err := s.store.AllUsers(ctx)
	if err != nil {
		s.log.Error("load users failed", zap.Error(err))
		return 0
	}

	var wg sync.WaitGroup
	sent := 0

	for i := range users {
		user := &users[i]

		nowLocal, ok := localNow(nowUTC, user.Timezone)
		if !ok {
			s.log.Warn("unknown timezone, falling back to UTC",
				zap.Int64("chatID", user.ChatID),
				zap.String("timezone", user.Timezone))
		}

		lang := user.Language
		if !ValidLanguage(lang) {
			lang = LangRU
		}

		modified := false
		for mi := range user.Medications {
			med := &user.Medications[mi]
			for _, fireTime := range med.Times {
				due, err := isDue(nowLocal, fireTime, med.Acknowledged[fireTime], med.LastReminderTime)
				if err != nil {
					s.log.Error("skipping fire time",
						zap.Int64("chatID", user.ChatID),
						zap.String("medicine", med.Name),
						zap.Error(err))
					continue
				}
				if !due {
					continue
				}

				text := s.msgs.Get("reminder_message", lang,
					"medicine", med.Name,
					"dosage", med.Dosage,
					"time", fireTime)
				label := s.msgs.Get("ack_button", lang)
				data := AckCallbackData(med.Name, fireTime)

				// Метка ставится до отправки: повтор внутри того же дня
				// не уйдёт, даже если сама отправка не удастся.
				med.LastReminderTime = nowLocal.Format(time.RFC3339)
				modified = true
				sent++

				wg.Add(1)
				go func(chatID int64, medName string) {
					defer wg.Done()
					if err := s.sem.Acquire(ctx, 1); err != nil {
						return
					}
					defer s.sem.Release(1)
					if err := s.sender.SendReminder(chatID, text, label, data); err != nil {
						s.log.Error("send reminder failed",
							zap.Int64("chatID", chatID),
							zap.String("medicine", medName),
							zap.Error(err))
					}
				}(user.ChatID, med.Name)
			}
		}

		if modified {
			if err := s.store.SaveUser(ctx, user); err != nil {
				s.log.Error("save user failed",
					zap.Int64("chatID", user.ChatID),
					zap.Error(err))
			}
		}
	}

	wg.Wait()
	return sent
}
