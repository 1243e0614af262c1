package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
)

// SaveSnapshot stores payload as the latest good response for filters.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, filters model.Filters, payload *model.Payload) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFilters(filters); err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("%w: payload", ErrNilParameter)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	fetched := payload.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (period, order_status, user_name, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(period, order_status) DO UPDATE SET
			user_name = excluded.user_name,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		string(filters.Period), string(filters.OrderStatus), payload.UserName, string(body), fetched.UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the stored payload for filters or common.ErrNotFound.
func (s *SQLiteStorage) GetSnapshot(ctx context.Context, filters model.Filters) (*model.Payload, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	var (
		body    string
		fetched time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, fetched_at FROM snapshots
		WHERE period = ? AND order_status = ?`,
		string(filters.Period), string(filters.OrderStatus)).Scan(&body, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	payload, err := model.DecodePayload([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
	}
	payload.FetchedAt = fetched
	return payload, nil
}

// PruneSnapshots deletes snapshots fetched before cutoff and returns how many were removed.
func (s *SQLiteStorage) PruneSnapshots(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE fetched_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
