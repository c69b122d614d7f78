package serviceImp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/climate"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/proxy/service"
)

var mediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type proxySvc struct {
	llm ai.Client
	log *logger.Logger
	now func() time.Time
}

func NewProxyService(llm ai.Client, log *logger.Logger, now func() time.Time) service.ProxyService {
	if now == nil {
		now = time.Now
	}
	return &proxySvc{llm: llm, log: log.With("component", "ProxyService"), now: now}
}

func (s *proxySvc) Advise(ctx context.Context, req service.AdviceRequest) (*ai.Advice, error) {
	plantType := strings.TrimSpace(req.PlantType)
	if plantType == "" {
		return nil, fmt.Errorf("%w: plantType is required", service.ErrInvalidRequest)
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = entities.Location{Country: strings.TrimSpace(req.Country), City: strings.TrimSpace(req.City)}.Label()
	}
	season := entities.Season(strings.TrimSpace(req.Season))
	if season == "" {
		season = climate.SeasonFor(req.Country, s.now())
	}

	raw, err := s.llm.Complete(ctx, ai.AdvicePrompt(plantType, strings.TrimSpace(req.Species), location, season))
	if err != nil {
		s.log.Warn("advice completion failed", "plant_type", plantType, "error", err)
		return nil, err
	}
	adv, err := ai.ParseAdvice(raw)
	if err != nil {
		s.log.Warn("advice reply rejected", "plant_type", plantType, "error", err)
		return nil, err
	}
	return adv, nil
}

func (s *proxySvc) Identify(ctx context.Context, req service.IdentifyRequest) (*ai.Identification, error) {
	mt := strings.ToLower(strings.TrimSpace(req.MediaType))
	if !mediaTypes[mt] {
		return nil, fmt.Errorf("%w: %q", service.ErrUnsupportedMediaType, req.MediaType)
	}
	data := stripDataURL(req.ImageBase64)
	if data == "" {
		return nil, fmt.Errorf("%w: imageBase64 is required", service.ErrInvalidRequest)
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return nil, fmt.Errorf("%w: imageBase64 is not valid base64", service.ErrInvalidRequest)
	}

	raw, err := s.llm.Complete(ctx, ai.IdentifyPrompt(ai.Image{MediaType: mt, Base64: data}))
	if err != nil {
		s.log.Warn("identify completion failed", "error", err)
		return nil, err
	}
	id := ai.ParseIdentification(raw)
	return &id, nil
}

// stripDataURL accepts both bare base64 and "data:image/png;base64,..." input.
func stripDataURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}
