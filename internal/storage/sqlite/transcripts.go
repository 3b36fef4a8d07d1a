package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/log"
)

type TranscriptRepo struct {
	db *sql.DB
}

func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

func (r *TranscriptRepo) GetTranscript(ctx context.Context, userID int64) (core.Transcript, error) {
	t := core.Transcript{UserID: userID}

	var persona string
	var updated time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT persona, updated_at FROM personas WHERE user_id = ?`, userID,
	).Scan(&persona, &updated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return t, nil
	case err != nil:
		return t, fmt.Errorf("failed to query persona: %w", err)
	}
	t.Persona = core.Persona(persona)
	t.UpdatedAt = updated

	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content, has_image FROM messages WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return t, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg core.Message
		var content sql.NullString
		if err := rows.Scan(&msg.Role, &content, &msg.HasImage); err != nil {
			return t, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Content = content.String
		t.Messages = append(t.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return t, err
	}

	log.FromCtx(ctx).Debug().
		Int64("user_id", userID).
		Int("count", len(t.Messages)).
		Msg("loaded transcript")
	return t, nil
}

func (r *TranscriptRepo) ResetTranscript(ctx context.Context, userID int64, persona core.Persona, seed []core.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO personas (user_id, persona, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id) DO UPDATE SET persona = excluded.persona, updated_at = CURRENT_TIMESTAMP`,
		userID, string(persona))
	if err != nil {
		return fmt.Errorf("failed to upsert persona: %w", err)
	}

	if err := insertMessages(ctx, tx, userID, seed); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TranscriptRepo) AppendMessages(ctx context.Context, userID int64, msgs ...core.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMessages(ctx, tx, userID, msgs); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `UPDATE personas SET updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to touch persona: %w", err)
	}
	return tx.Commit()
}

func (r *TranscriptRepo) DeleteTranscript(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM personas WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	return tx.Commit()
}

func insertMessages(ctx context.Context, tx *sql.Tx, userID int64, msgs []core.Message) error {
	const query = `INSERT INTO messages (user_id, role, content, has_image) VALUES (?, ?, ?, ?)`
	for _, msg := range msgs {
		if _, err := tx.ExecContext(ctx, query, userID, msg.Role, msg.Content, msg.HasImage); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}
	return nil
}
