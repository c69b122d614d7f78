package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"plantcare/entities"
	"plantcare/pkg/plant"
	"plantcare/pkg/plant/filter"
	repo "plantcare/pkg/plant/repository"
	"plantcare/pkg/plant/service"
	"plantcare/pkg/schedule"
)

type plantSvc struct {
	r   repo.PlantRepository
	now func() time.Time
}

func NewPlantService(r repo.PlantRepository, now func() time.Time) service.PlantService {
	if now == nil {
		now = time.Now
	}
	return &plantSvc{r: r, now: now}
}

func (s *plantSvc) Add(ctx context.Context, in service.AddPlantInput) (*entities.Plant, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", plant.ErrInvalid, in.Type)
	}
	if err := validatePhoto(in.Photo); err != nil {
		return nil, err
	}
	p := &entities.Plant{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Species:   strings.TrimSpace(in.Species),
		Nickname:  strings.TrimSpace(in.Nickname),
		Photo:     in.Photo,
		CreatedAt: s.now(),
	}
	if err := s.r.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *plantSvc) Get(ctx context.Context, id string) (*service.PlantView, error) {
	p, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &service.PlantView{Plant: *p, Status: schedule.Evaluate(p, s.now())}, nil
}

func (s *plantSvc) List(ctx context.Context, opts filter.Options) ([]service.PlantView, error) {
	all, err := s.r.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	shown := filter.Apply(all, opts, now)
	out := make([]service.PlantView, len(shown))
	for i := range shown {
		out[i] = service.PlantView{Plant: shown[i], Status: schedule.Evaluate(&shown[i], now)}
	}
	return out, nil
}

// Update writes only the provided fields. A new type or species invalidates the cached advice.
func (s *plantSvc) Update(ctx context.Context, id string, in service.UpdatePlantInput) (*entities.Plant, error) {
	cur, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var patch repo.Patch
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown type %q", plant.ErrInvalid, *in.Type)
		}
		if *in.Type != cur.Type {
			patch.Type = in.Type
		}
	}
	if in.Species != nil {
		if sp := strings.TrimSpace(*in.Species); sp != cur.Species {
			patch.Species = &sp
		}
	}
	if in.Nickname != nil {
		nn := strings.TrimSpace(*in.Nickname)
		patch.Nickname = &nn
	}
	if in.Photo != nil {
		if err := validatePhoto(*in.Photo); err != nil {
			return nil, err
		}
		patch.Photo = in.Photo
	}
	patch.ClearAdvice = cur.WateringAdvice != nil && (patch.Type != nil || patch.Species != nil)

	if err := s.r.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.r.FindByID(ctx, id)
}

func (s *plantSvc) Delete(ctx context.Context, id string) error {
	return s.r.Delete(ctx, id)
}

// validatePhoto accepts an empty reference or an inline image data URL.
func validatePhoto(photo string) error {
	if photo == "" || strings.HasPrefix(photo, "data:image/") {
		return nil
	}
	return fmt.Errorf("%w: photo must be an inline image", plant.ErrInvalid)
}
