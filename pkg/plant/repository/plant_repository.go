package repository

import (
	"context"

	"plantcare/entities"
)

// Patch holds the user-editable columns; nil leaves a column unchanged.
type Patch struct {
	Type     *entities.PlantType
	Species  *string
	Nickname *string
	Photo    *string
	// ClearAdvice drops the cached advice in the same statement.
	ClearAdvice bool
}

type PlantRepository interface {
	Create(ctx context.Context, p *entities.Plant) error
	FindByID(ctx context.Context, id string) (*entities.Plant, error)
	List(ctx context.Context) ([]entities.Plant, error)
	Update(ctx context.Context, id string, patch Patch) error
	// SetAdvice replaces the cached advice wholesale.
	SetAdvice(ctx context.Context, id string, adv *entities.WateringAdvice) error
	// Delete removes the plant and every watering log that references it.
	Delete(ctx context.Context, id string) error
}
