package service

import (
	"context"
	"time"

	"plantcare/entities"
)

// JustWateredFor is how long the UI shows its "just watered" feedback.
const JustWateredFor = 2500 * time.Millisecond

type Result struct {
	// Watered is false when the call was a no-op.
	Watered       bool       `json:"watered"`
	LastWatered   *time.Time `json:"last_watered"`
	JustWateredMs int64      `json:"just_watered_ms"`
}

type WateringService interface {
	MarkWatered(ctx context.Context, plantID string) (*Result, error)
	History(ctx context.Context, plantID string) ([]entities.WateringLog, error)
}
