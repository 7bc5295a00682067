package repository

import (
	"context"

	"guild-tracker/internal/domain/entity"
)

// WatermarkRepository persists the delivery watermark of each tracked guild.
type WatermarkRepository interface {
	// Get returns the stored watermark, or nil when the key has never been written.
	Get(ctx context.Context, key entity.WatermarkKey) (*entity.Watermark, error)
	// Put stores matchID unless the stored value is already greater.
	Put(ctx context.Context, key entity.WatermarkKey, matchID int64) error
	// Reset overwrites the stored value unconditionally. Operator use only.
	Reset(ctx context.Context, key entity.WatermarkKey, matchID int64) error
}
