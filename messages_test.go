package main

import (
	"strings"
	"testing"
)

func loadTestMessages(t *testing.T) Messages {
	t.Helper()
	msgs, err := LoadMessages()
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	return msgs
}

func TestMessages_Placeholders(t *testing.T) {
	msgs := loadTestMessages(t)

	text := msgs.Get("reminder_message", LangEN,
		"medicine", "Aspirin",
		"dosage", "500mg",
		"time", "09:00")

	for _, want := range []string{"Aspirin", "500mg", "09:00"} {
		if !strings.Contains(text, want) {
			t.Fatalf("reminder text must contain %q, got %q", want, text)
		}
	}
	if strings.Contains(text, "{") {
		t.Fatalf("unresolved placeholder in %q", text)
	}
}

func TestMessages_UnknownLanguageFallsBackToRussian(t *testing.T) {
	msgs := loadTestMessages(t)

	got := msgs.Get("start", "de")
	want := msgs.Get("start", LangRU)
	if got != want {
		t.Fatalf("unknown language must fall back to ru")
	}
}

func TestMessages_AllKeysHaveBothLanguages(t *testing.T) {
	msgs := loadTestMessages(t)
	for key, byLang := range msgs {
		for _, lang := range []string{LangRU, LangEN} {
			if byLang[lang] == "" {
				t.Fatalf("key %q missing %q translation", key, lang)
			}
		}
	}
}

func TestFormatMedicationList(t *testing.T) {
	msgs := loadTestMessages(t)

	u := NewUser(1, LangEN)
	u.AddMedication("Aspirin", "500mg", []string{"09:00", "21:00"})
	u.Medications[0].Acknowledged["09:00"] = "2024-01-01"

	got := FormatMedicationList(u, msgs)
	want := "Aspirin (500mg) at 09:00, 21:00 (09:00: 2024-01-01)"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
