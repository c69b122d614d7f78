package service

import (
	"context"

	"plantcare/entities"
	"plantcare/pkg/plant/filter"
	"plantcare/pkg/schedule"
)

type AddPlantInput struct {
	Type     entities.PlantType `json:"type"`
	Species  string             `json:"species"`
	Nickname string             `json:"nickname"`
	Photo    string             `json:"photo"`
}

type UpdatePlantInput struct {
	Type     *entities.PlantType `json:"type"`
	Species  *string             `json:"species"`
	Nickname *string             `json:"nickname"`
	Photo    *string             `json:"photo"`
}

// PlantView is a plant with its urgency evaluated at read time.
type PlantView struct {
	entities.Plant
	schedule.Status
}

type PlantService interface {
	Add(ctx context.Context, in AddPlantInput) (*entities.Plant, error)
	Get(ctx context.Context, id string) (*PlantView, error)
	List(ctx context.Context, opts filter.Options) ([]PlantView, error)
	Update(ctx context.Context, id string, in UpdatePlantInput) (*entities.Plant, error)
	Delete(ctx context.Context, id string) error
}
