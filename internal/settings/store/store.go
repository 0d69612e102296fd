package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/factura/internal/settings"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetSettings(ctx context.Context, userID string) (*settings.Settings, error) {
	query := `
		SELECT payload
		FROM user_settings
		WHERE user_id = $1
	`

	var payload []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding settings: %w", err)
	}

	var st settings.Settings
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	return &st, nil
}

func (s *Store) SaveSettings(ctx context.Context, userID string, st *settings.Settings) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	query := `
		INSERT INTO user_settings (user_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, userID, payload); err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}

	return nil
}
