package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"plantcare/entities"
	"plantcare/pkg/advice/service"
	"plantcare/pkg/ai"
	"plantcare/pkg/climate"
	"plantcare/pkg/plant"
	"plantcare/pkg/platform/logger"
	proxy "plantcare/pkg/proxy/service"
)

// PlantStore is the slice of the plant repository the flow uses.
type PlantStore interface {
	FindByID(ctx context.Context, id string) (*entities.Plant, error)
	SetAdvice(ctx context.Context, id string, adv *entities.WateringAdvice) error
}

type SettingsReader interface {
	Get(ctx context.Context) (*entities.UserSettings, error)
}

type adviceSvc struct {
	plants   PlantStore
	settings SettingsReader
	advisor  proxy.Advisor
	table    *climate.FallbackTable
	log      *logger.Logger
	now      func() time.Time

	group singleflight.Group
}

func NewAdviceService(plants PlantStore, settings SettingsReader, advisor proxy.Advisor,
	table *climate.FallbackTable, log *logger.Logger, now func() time.Time) service.AdviceService {
	if table == nil {
		table = climate.DefaultFallbacks()
	}
	if now == nil {
		now = time.Now
	}
	return &adviceSvc{
		plants:   plants,
		settings: settings,
		advisor:  advisor,
		table:    table,
		log:      log.With("component", "AdviceService"),
		now:      now,
	}
}

func (s *adviceSvc) Acquire(ctx context.Context, plantID string, force bool) (*entities.WateringAdvice, error) {
	if plantID == "" {
		return nil, plant.ErrNotFound
	}
	if !force {
		adv, err := s.Cached(ctx, plantID)
		if err != nil || adv != nil {
			return adv, err
		}
	}

	// concurrent requests for one plant share a single generation
	v, err, _ := s.group.Do(plantID, func() (any, error) {
		return s.generate(context.WithoutCancel(ctx), plantID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entities.WateringAdvice), nil
}

func (s *adviceSvc) Cached(ctx context.Context, plantID string) (*entities.WateringAdvice, error) {
	if plantID == "" {
		return nil, plant.ErrNotFound
	}
	p, err := s.plants.FindByID(ctx, plantID)
	if err != nil {
		return nil, err
	}
	return p.WateringAdvice, nil
}

// maxReclassify bounds how often generation restarts because the plant's
// type or species changed while the advisor was answering.
const maxReclassify = 3

func (s *adviceSvc) generate(ctx context.Context, plantID string) (*entities.WateringAdvice, error) {
	p, err := s.plants.FindByID(ctx, plantID)
	if err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		rec := s.build(ctx, p)
		cur, err := s.plants.FindByID(ctx, plantID)
		if err != nil {
			return nil, err
		}
		if cur.Type == p.Type && cur.Species == p.Species {
			if err := s.plants.SetAdvice(ctx, plantID, rec); err != nil {
				s.log.Error("persist advice", "plant_id", plantID, "fallback", rec.IsFallback, "error", err)
				return nil, fmt.Errorf("persist advice: %w", err)
			}
			return rec, nil
		}
		if attempt == maxReclassify {
			return nil, fmt.Errorf("plant %s kept changing during advice generation", plantID)
		}
		s.log.Info("plant reclassified during advice, regenerating", "plant_id", plantID,
			"type", string(cur.Type), "species", cur.Species)
		p = cur
	}
}

// build asks the advisor for p and falls back to the static table on any
// advisor failure.
func (s *adviceSvc) build(ctx context.Context, p *entities.Plant) *entities.WateringAdvice {
	loc := s.location(ctx)
	now := s.now()

	rec := &entities.WateringAdvice{
		GeneratedAt: now,
		Season:      climate.SeasonFor(loc.Country, now),
		Location:    loc.Label(),
	}
	adv, err := s.advisor.Advise(ctx, proxy.AdviceRequest{
		PlantType: string(p.Type),
		Species:   p.Species,
		Country:   loc.Country,
		City:      loc.City,
	})
	if err != nil {
		if errors.Is(err, ai.ErrRateLimited) {
			s.log.Warn("advice rate limited, using fallback", "plant_id", p.ID)
		} else {
			s.log.Warn("advice unavailable, using fallback", "plant_id", p.ID, "error", err)
		}
		rule := s.table.Lookup(p.Type)
		rec.Advice, rec.FrequencyDays, rec.BestTime, rec.Amount = rule.Advice, rule.FrequencyDays, rule.BestTime, rule.Amount
		rec.IsFallback = true
	} else {
		rec.Advice, rec.FrequencyDays, rec.BestTime, rec.Amount = adv.Advice, adv.FrequencyDays, adv.BestTime, adv.Amount
	}
	rec.FrequencyDays = climate.ClampFrequency(rec.FrequencyDays)
	return rec
}

// location is empty until onboarding stores one; the advice still proceeds.
func (s *adviceSvc) location(ctx context.Context) entities.Location {
	st, err := s.settings.Get(ctx)
	if err != nil || st == nil {
		if err != nil {
			s.log.Debug("no settings for advice location", "error", err)
		}
		return entities.Location{}
	}
	return st.Location
}
