package service

import (
	"context"
	"errors"

	"plantcare/pkg/ai"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// AdviceRequest accepts either a pre-joined location and season, or the raw
// country/city pair with the season resolved server side.
type AdviceRequest struct {
	PlantType string `json:"plantType"`
	Species   string `json:"species"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	Location  string `json:"location,omitempty"`
	Season    string `json:"season,omitempty"`
}

type IdentifyRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MediaType   string `json:"mediaType"`
}

// Advisor is the advice endpoint as seen by its callers, local or remote.
type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (*ai.Advice, error)
}

type ProxyService interface {
	Advisor
	Identify(ctx context.Context, req IdentifyRequest) (*ai.Identification, error)
}
