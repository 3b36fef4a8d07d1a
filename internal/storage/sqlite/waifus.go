package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type WaifuRepo struct {
	db *sql.DB
}

func NewWaifuRepo(db *sql.DB) *WaifuRepo {
	return &WaifuRepo{db: db}
}

func (r *WaifuRepo) SentWaifus(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM sent_waifus WHERE user_id = ? ORDER BY sent_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sent waifus: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan waifu: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *WaifuRepo) MarkWaifuSent(ctx context.Context, userID int64, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO sent_waifus (user_id, name) VALUES (?, ?)`, userID, name)
	if err != nil {
		return fmt.Errorf("failed to mark waifu sent: %w", err)
	}
	return nil
}

func (r *WaifuRepo) ResetWaifus(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sent_waifus WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to reset waifus: %w", err)
	}
	return nil
}
