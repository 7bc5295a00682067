package entity

import "time"

// Watermark is the highest match id already delivered for a guild.
// It only moves forward during normal operation.
type Watermark struct {
	Group     string
	GuildID   int64
	MatchID   int64
	UpdatedAt time.Time
}

// WatermarkKey addresses one watermark: a group name plus the tracked guild id.
type WatermarkKey struct {
	Group   string
	GuildID int64
}
