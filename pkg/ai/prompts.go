package ai

import (
	"fmt"
	"strings"

	"plantcare/entities"
)

const adviceSystem = "You are a friendly horticulturist. You give short, practical watering advice for house and garden plants. Reply ONLY with valid JSON."

// AdvicePrompt asks for watering guidance for one plant in a given place and season.
func AdvicePrompt(plantType, species, location string, season entities.Season) Prompt {
	if species == "" {
		species = "unknown"
	}
	if location == "" {
		location = "unknown"
	}
	return Prompt{
		System: adviceSystem,
		User: fmt.Sprintf(`Give watering advice for this plant.

Plant type: %s
Species: %s
Location: %s
Current season: %s

Return a JSON object with exactly these fields:
{"advice": "2-3 sentences of practical guidance for this season and climate",
 "frequency_days": <integer between 1 and 30>,
 "best_time": "%s",
 "amount": "%s"}

Return ONLY the JSON, no other text.`,
			plantType, species, location, season,
			joinEnum(entities.BestTimes), joinEnum(entities.WaterAmounts)),
		MaxTokens: 512,
	}
}

// IdentifyPrompt asks the model to classify a photo into one of the known categories.
func IdentifyPrompt(img Image) Prompt {
	return Prompt{
		System: "You are a botanist who identifies plants from photos. Reply ONLY with valid JSON.",
		User: fmt.Sprintf(`Identify the plant in this photo.

Return a JSON object:
{"type": "%s",
 "species": "common name and, if known, scientific name",
 "confidence": "high|medium|low"}

Use "Other" when the category is unclear. Return ONLY the JSON, no other text.`,
			joinEnum(entities.PlantTypes)),
		Images:    []Image{img},
		MaxTokens: 256,
	}
}

func joinEnum[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}
