package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed messages.json
var messagesFS embed.FS

// Messages хранит переводы сообщений: ключ → язык → текст
type Messages map[string]map[string]string

const (
	LangRU = "ru"
	LangEN = "en"
)

// LoadMessages читает встроенную таблицу переводов
func LoadMessages() (Messages, error) {
	data, err := messagesFS.ReadFile("messages.json")
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	var m Messages
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	return m, nil
}

// Get возвращает сообщение для ключа и языка с подстановкой {placeholder}.
// Аргументы идут парами: имя, значение.
func (m Messages) Get(key, lang string, args ...string) string {
	byLang, ok := m[key]
	if !ok {
		return ""
	}
	text, ok := byLang[lang]
	if !ok {
		text = byLang[LangRU]
	}
	for i := 0; i+1 < len(args); i += 2 {
		text = strings.ReplaceAll(text, "{"+args[i]+"}", args[i+1])
	}
	return text
}

// ValidLanguage проверяет, что язык входит в поддерживаемый набор
func ValidLanguage(lang string) bool {
	return lang == LangRU || lang == LangEN
}
