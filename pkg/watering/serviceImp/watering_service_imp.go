package serviceImp

import (
	"context"
	"sync"
	"time"

	"plantcare/entities"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/schedule"
	repo "plantcare/pkg/watering/repository"
	"plantcare/pkg/watering/service"
)

// PlantReader is the slice of the plant store the watering action needs.
type PlantReader interface {
	FindByID(ctx context.Context, id string) (*entities.Plant, error)
}

type wateringSvc struct {
	r      repo.WateringRepository
	plants PlantReader
	log    *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewWateringService(r repo.WateringRepository, plants PlantReader, log *logger.Logger, now func() time.Time) service.WateringService {
	if now == nil {
		now = time.Now
	}
	return &wateringSvc{
		r:        r,
		plants:   plants,
		log:      log.With("component", "WateringService"),
		now:      now,
		inFlight: make(map[string]struct{}),
	}
}

// MarkWatered is a no-op for an empty id, for a plant already being watered,
// and for a plant already watered today.
func (s *wateringSvc) MarkWatered(ctx context.Context, plantID string) (*service.Result, error) {
	if plantID == "" {
		return &service.Result{}, nil
	}
	if !s.acquire(plantID) {
		s.log.Debug("watering already in flight", "plant_id", plantID)
		return &service.Result{}, nil
	}
	defer s.release(plantID)

	p, err := s.plants.FindByID(ctx, plantID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if p.LastWatered != nil && schedule.SameCalendarDay(*p.LastWatered, now) {
		return &service.Result{LastWatered: p.LastWatered}, nil
	}

	if _, err := s.r.Water(ctx, plantID, now); err != nil {
		s.log.Error("watering failed", "plant_id", plantID, "error", err)
		return nil, err
	}
	return &service.Result{
		Watered:       true,
		LastWatered:   &now,
		JustWateredMs: service.JustWateredFor.Milliseconds(),
	}, nil
}

func (s *wateringSvc) History(ctx context.Context, plantID string) ([]entities.WateringLog, error) {
	if _, err := s.plants.FindByID(ctx, plantID); err != nil {
		return nil, err
	}
	return s.r.ListByPlant(ctx, plantID)
}

func (s *wateringSvc) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *wateringSvc) release(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}
