package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// Ensure historyStore implements the interface.
var _ driven.HistoryStore = (*historyStore)(nil)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

type historyStore struct {
	db *sql.DB
}

// Append stores a message.
func (s *historyStore) Append(ctx context.Context, msg domain.HistoryMessage) error {
	sources := jsonNull
	if len(msg.Sources) > 0 {
		data, err := json.Marshal(msg.Sources)
		if err != nil {
			return fmt.Errorf("marshalling sources: %w", err)
		}
		sources = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history_messages (id, role, content, sources, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, string(msg.Role), msg.Content, sources, msg.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// List returns the most recent messages, oldest first. limit <= 0 returns all.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.HistoryMessage, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, sources, created_at FROM (
			SELECT seq, id, role, content, sources, created_at
			FROM history_messages
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.HistoryMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

// Clear deletes every message.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history_messages"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Close is a no-op; the owning Store closes the database.
func (s *historyStore) Close() error {
	return nil
}

func scanMessage(rows *sql.Rows) (*domain.HistoryMessage, error) {
	var (
		msg       domain.HistoryMessage
		role      string
		sources   sql.NullString
		createdAt string
	)
	if err := rows.Scan(&msg.ID, &role, &msg.Content, &sources, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning message: %w", err)
	}
	msg.Role = domain.Role(role)

	if sources.Valid && sources.String != jsonNull {
		if err := json.Unmarshal([]byte(sources.String), &msg.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}
	msg.Timestamp = ts
	return &msg, nil
}
