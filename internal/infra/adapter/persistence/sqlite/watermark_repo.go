package sqlite

import (
	"context"
	"fmt"
	"time"

	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/observability/metrics"
	"guild-tracker/internal/repository"
)

type WatermarkRepo struct{ db Querier }

func NewWatermarkRepo(db Querier) repository.WatermarkRepository {
	return &WatermarkRepo{db: db}
}

func (repo *WatermarkRepo) Get(ctx context.Context, key entity.WatermarkKey) (*entity.Watermark, error) {
	defer observeQuery("get", time.Now())

	const query = `
SELECT group_name, guild_id, match_id, updated_at
FROM guild_watermarks
WHERE group_name = ? AND guild_id = ?
LIMIT 1`
	rows, err := repo.db.QueryContext(ctx, query, key.Group, key.GuildID)
	if err != nil {
		return nil, fmt.Errorf("Get: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("Get: rows: %w", err)
		}
		return nil, nil
	}

	var w entity.Watermark
	if err := rows.Scan(&w.Group, &w.GuildID, &w.MatchID, &w.UpdatedAt); err != nil {
		return nil, fmt.Errorf("Get: Scan: %w", err)
	}
	return &w, nil
}

func (repo *WatermarkRepo) Put(ctx context.Context, key entity.WatermarkKey, matchID int64) error {
	defer observeQuery("put", time.Now())

	// SQLite 3.24+ の UPSERT 構文。小さい値では上書きしない
	const query = `
INSERT INTO guild_watermarks (group_name, guild_id, match_id, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (group_name, guild_id) DO UPDATE
SET match_id = excluded.match_id, updated_at = excluded.updated_at
WHERE guild_watermarks.match_id < excluded.match_id`
	if _, err := repo.db.ExecContext(ctx, query, key.Group, key.GuildID, matchID, time.Now().UTC()); err != nil {
		return fmt.Errorf("Put: ExecContext: %w", err)
	}
	return nil
}

func (repo *WatermarkRepo) Reset(ctx context.Context, key entity.WatermarkKey, matchID int64) error {
	defer observeQuery("reset", time.Now())

	const query = `
INSERT INTO guild_watermarks (group_name, guild_id, match_id, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (group_name, guild_id) DO UPDATE
SET match_id = excluded.match_id, updated_at = excluded.updated_at`
	if _, err := repo.db.ExecContext(ctx, query, key.Group, key.GuildID, matchID, time.Now().UTC()); err != nil {
		return fmt.Errorf("Reset: ExecContext: %w", err)
	}
	return nil
}

func observeQuery(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}
