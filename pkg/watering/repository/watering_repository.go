package repository

import (
	"context"
	"time"

	"plantcare/entities"
)

type WateringRepository interface {
	// Water appends a log at `at` and sets the plant's last_watered to the same
	// instant, in one transaction.
	Water(ctx context.Context, plantID string, at time.Time) (*entities.WateringLog, error)
	ListByPlant(ctx context.Context, plantID string) ([]entities.WateringLog, error)
	ListAll(ctx context.Context) ([]entities.WateringLog, error)
}
