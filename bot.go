package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// accessDeniedText отправляется неавторизованным пользователям как есть,
// без перевода: их языка мы не знаем
const accessDeniedText = "Access denied. You are not authorized to use this bot."

type Bot struct {
	api     *tgbotapi.BotAPI
	storage *Storage
	msgs    Messages
	allow   AllowList
	adminID int64
	log     *zap.Logger
}

func NewBot(cfg Config, storage *Storage, msgs Messages, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Info("authorized on account", zap.String("username", api.Self.UserName))

	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Начать работу"},
		tgbotapi.BotCommand{Command: "addmedicine", Description: "Добавить лекарство"},
		tgbotapi.BotCommand{Command: "deletemedicine", Description: "Удалить лекарство"},
		tgbotapi.BotCommand{Command: "listmedicines", Description: "Мои лекарства"},
		tgbotapi.BotCommand{Command: "settimezone", Description: "Часовой пояс"},
		tgbotapi.BotCommand{Command: "setlanguage", Description: "Язык"},
	)
	if _, err := api.Request(commands); err != nil {
		log.Warn("failed to set bot commands", zap.Error(err))
	}

	return &Bot{
		api:     api,
		storage: storage,
		msgs:    msgs,
		allow:   ParseAllowList(cfg.AllowedUsers),
		adminID: cfg.AdminID,
		log:     log,
	}, nil
}

// HandleUpdates крутит цикл long polling до отмены контекста
func (b *Bot) HandleUpdates(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("update loop stopping")
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		b.log.Info("callback received",
			zap.String("username", cb.From.UserName),
			zap.Int64("from", cb.From.ID),
			zap.String("data", cb.Data))

		// Подтверждаем получение callback в любом случае,
		// чтобы у пользователя не висел индикатор ожидания
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warn("failed to answer callback", zap.Error(err))
		}

		if cb.Message == nil {
			return
		}

		if !b.allow.Allowed(cb.From.UserName) {
			b.log.Info("unauthorized callback dropped",
				zap.String("username", cb.From.UserName),
				zap.Int64("from", cb.From.ID))
			return
		}

		b.handleAckCallback(ctx, cb)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	b.log.Info("message received",
		zap.String("username", msg.From.UserName),
		zap.Int64("chatID", chatID),
		zap.String("text", msg.Text))

	if !b.allow.Allowed(msg.From.UserName) {
		b.log.Info("unauthorized access attempt",
			zap.String("username", msg.From.UserName),
			zap.Int64("chatID", chatID))
		b.sendMessage(chatID, accessDeniedText)
		return
	}

	if msg.IsCommand() {
		args := strings.Fields(msg.CommandArguments())
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, chatID)
		case "addmedicine":
			b.handleAddMedicine(ctx, chatID, args)
		case "deletemedicine":
			b.handleDeleteMedicine(ctx, chatID, args)
		case "settimezone":
			b.handleSetTimezone(ctx, chatID, args)
		case "setlanguage":
			b.handleSetLanguage(ctx, chatID, args)
		case "listmedicines":
			b.handleListMedicines(ctx, chatID)
		case "stats":
			b.handleStats(ctx, chatID)
		}
		return
	}

	b.handleEcho(ctx, chatID, msg.Text)
}

// loadUser достаёт запись пользователя; ошибка хранилища логируется,
// обработчик в этом случае молчит
func (b *Bot) loadUser(ctx context.Context, chatID int64) *User {
	user, err := b.storage.GetUser(ctx, chatID)
	if err != nil {
		b.log.Error("load user failed", zap.Int64("chatID", chatID), zap.Error(err))
		return nil
	}
	return user
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}
	b.sendMessage(chatID, b.msgs.Get("start", user.Language))
}

func (b *Bot) handleAddMedicine(ctx context.Context, chatID int64, args []string) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}
	if len(args) < 3 {
		b.sendMessage(chatID, b.msgs.Get("addmedicine_usage", user.Language))
		return
	}

	name, dosage, times := args[0], args[1], args[2:]
	user.AddMedication(name, dosage, times)

	if err := b.storage.SaveUser(ctx, user); err != nil {
		b.log.Error("save user failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}

	b.sendMessage(chatID, b.msgs.Get("medicine_added", user.Language,
		"medicine", name,
		"dosage", dosage,
		"times", strings.Join(times, ", ")))
}

func (b *Bot) handleDeleteMedicine(ctx context.Context, chatID int64, args []string) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}
	if len(args) < 1 {
		b.sendMessage(chatID, b.msgs.Get("deletemedicine_usage", user.Language))
		return
	}

	name := args[0]
	if user.DeleteMedication(name) == 0 {
		b.sendMessage(chatID, b.msgs.Get("medicine_not_found", user.Language, "medicine", name))
		return
	}

	if err := b.storage.SaveUser(ctx, user); err != nil {
		b.log.Error("save user failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}

	b.sendMessage(chatID, b.msgs.Get("medicine_deleted", user.Language, "medicine", name))
}

func (b *Bot) handleSetTimezone(ctx context.Context, chatID int64, args []string) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}
	if len(args) < 1 {
		b.sendMessage(chatID, b.msgs.Get("settimezone_usage", user.Language))
		return
	}

	// Зона не проверяется при записи: некорректное значение
	// всплывёт при вычислении расписания и откатится к UTC
	user.Timezone = args[0]

	if err := b.storage.SaveUser(ctx, user); err != nil {
		b.log.Error("save user failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}

	b.sendMessage(chatID, b.msgs.Get("timezone_set", user.Language, "timezone", user.Timezone))
}

func (b *Bot) handleSetLanguage(ctx context.Context, chatID int64, args []string) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}
	if len(args) < 1 {
		b.sendMessage(chatID, b.msgs.Get("setlanguage_usage", user.Language))
		return
	}

	newLang := strings.ToLower(args[0])
	if !ValidLanguage(newLang) {
		b.sendMessage(chatID, b.msgs.Get("setlanguage_usage", user.Language))
		return
	}

	user.Language = newLang

	if err := b.storage.SaveUser(ctx, user); err != nil {
		b.log.Error("save user failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}

	// Подтверждение уже на новом языке
	b.sendMessage(chatID, b.msgs.Get("language_set", newLang))
}

func (b *Bot) handleListMedicines(ctx context.Context, chatID int64) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}
	if len(user.Medications) == 0 {
		b.sendMessage(chatID, b.msgs.Get("listmedicines_empty", user.Language))
		return
	}

	b.sendMessage(chatID, FormatMedicationList(user, b.msgs))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}

	// Проверка прав администратора
	if b.adminID != 0 && chatID != b.adminID {
		b.sendMessage(chatID, b.msgs.Get("stats_admin_only", user.Language))
		return
	}

	totalUsers, totalMedications, err := b.storage.GetStats(ctx)
	if err != nil {
		b.log.Error("load stats failed", zap.Error(err))
		return
	}

	b.sendMessage(chatID, b.msgs.Get("stats_message", user.Language,
		"users", fmt.Sprintf("%d", totalUsers),
		"medications", fmt.Sprintf("%d", totalMedications)))
}

func (b *Bot) handleEcho(ctx context.Context, chatID int64, text string) {
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}
	b.sendMessage(chatID, b.msgs.Get("echo", user.Language, "text", text))
}

// FormatMedicationList собирает текст списка лекарств: имя, дозировка,
// времена приёма через запятую и отметки приёма по датам
func FormatMedicationList(user *User, msgs Messages) string {
	preposition := msgs.Get("medicine_time_preposition", user.Language)

	var lines []string
	for _, med := range user.Medications {
		ackStr := ""
		if len(med.Acknowledged) > 0 {
			times := make([]string, 0, len(med.Acknowledged))
			for t := range med.Acknowledged {
				times = append(times, t)
			}
			sort.Strings(times)

			parts := make([]string, 0, len(times))
			for _, t := range times {
				parts = append(parts, t+": "+med.Acknowledged[t])
			}
			ackStr = " (" + strings.Join(parts, ", ") + ")"
		}
		lines = append(lines, fmt.Sprintf("%s (%s) %s %s%s",
			med.Name, med.Dosage, preposition, strings.Join(med.Times, ", "), ackStr))
	}

	return strings.Join(lines, "\n")
}

// handleAckCallback обрабатывает нажатие кнопки подтверждения приёма
func (b *Bot) handleAckCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	user := b.loadUser(ctx, chatID)
	if user == nil {
		return
	}

	medName, fireTime, ok := ParseAckCallbackData(cb.Data)
	if !ok {
		b.editMessageText(chatID, cb.Message.MessageID, b.msgs.Get("ack_invalid", user.Language))
		return
	}

	if !user.Acknowledge(medName, fireTime, nowUTC()) {
		b.editMessageText(chatID, cb.Message.MessageID, b.msgs.Get("medicine_for_ack_not_found", user.Language))
		return
	}

	if err := b.storage.SaveUser(ctx, user); err != nil {
		b.log.Error("save user failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}

	newText := cb.Message.Text + "\n\n" + b.msgs.Get("acknowledged_success", user.Language)
	b.editMessageText(chatID, cb.Message.MessageID, newText)
}

// SendReminder отправляет напоминание с одной inline-кнопкой подтверждения.
// Реализует интерфейс reminderSender для Sweeper.
func (b *Bot) SendReminder(chatID int64, text, buttonLabel, callbackData string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonLabel, callbackData),
		),
	)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (b *Bot) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("failed to edit message", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
