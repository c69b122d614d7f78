package service

import (
	"context"

	"plantcare/entities"
)

type AdviceService interface {
	// Acquire never surfaces advisor failures: they become fallback advice.
	// Only lookup and persist failures are returned.
	Acquire(ctx context.Context, plantID string, force bool) (*entities.WateringAdvice, error)
	// Cached returns the stored advice, nil when none has been generated.
	Cached(ctx context.Context, plantID string) (*entities.WateringAdvice, error)
}
