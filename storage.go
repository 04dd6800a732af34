package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage хранит записи пользователей в PostgreSQL: одна строка на чат,
// список лекарств лежит целиком в колонке JSONB. Запись перезаписывается
// без проверки версий — последняя запись побеждает.
type Storage struct {
	pool        *pgxpool.Pool
	defaultLang string
}

func NewStorage(ctx context.Context, databaseURL, defaultLang string, log *zap.Logger) (*Storage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &Storage{pool: pool, defaultLang: defaultLang}
	if err := storage.createTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Info("connected to PostgreSQL")
	return storage, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			chat_id BIGINT PRIMARY KEY,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			language TEXT NOT NULL DEFAULT 'ru',
			medications JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT NOW()
		);
	`)
	return err
}

func (s *Storage) Close() {
	s.pool.Close()
}

// GetUser возвращает запись пользователя. Если записи нет,
// возвращается запись по умолчанию (в базу она не пишется).
func (s *Storage) GetUser(ctx context.Context, chatID int64) (*User, error) {
	var (
		timezone string
		language string
		medsJSON []byte
	)

	err := s.pool.QueryRow(ctx, `
		SELECT timezone, language, medications FROM users WHERE chat_id = $1
	`, chatID).Scan(&timezone, &language, &medsJSON)

	if err == pgx.ErrNoRows {
		return NewUser(chatID, s.defaultLang), nil
	}
	if err != nil {
		return nil, err
	}

	var meds []Medication
	if err := json.Unmarshal(medsJSON, &meds); err != nil {
		return nil, fmt.Errorf("decode medications for chat %d: %w", chatID, err)
	}

	return &User{
		ChatID:      chatID,
		Timezone:    timezone,
		Language:    language,
		Medications: meds,
	}, nil
}

// SaveUser записывает всю запись пользователя целиком
func (s *Storage) SaveUser(ctx context.Context, u *User) error {
	medsJSON, err := json.Marshal(u.Medications)
	if err != nil {
		return fmt.Errorf("encode medications for chat %d: %w", u.ChatID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (chat_id, timezone, language, medications)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE SET
			timezone    = EXCLUDED.timezone,
			language    = EXCLUDED.language,
			medications = EXCLUDED.medications
	`, u.ChatID, u.Timezone, u.Language, medsJSON)
	return err
}

// AllUsers возвращает все записи. Полный перебор таблицы —
// приемлемо на ожидаемом масштабе.
func (s *Storage) AllUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chat_id, timezone, language, medications FROM users
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var (
			u        User
			medsJSON []byte
		)
		if err := rows.Scan(&u.ChatID, &u.Timezone, &u.Language, &medsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(medsJSON, &u.Medications); err != nil {
			return nil, fmt.Errorf("decode medications for chat %d: %w", u.ChatID, err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetStats возвращает статистику для админа
func (s *Storage) GetStats(ctx context.Context) (totalUsers, totalMedications int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(jsonb_array_length(medications)), 0)
		FROM users
	`).Scan(&totalUsers, &totalMedications)
	return
}
