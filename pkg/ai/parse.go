package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"plantcare/entities"
	"plantcare/pkg/climate"
)

// Advice is the validated advice contract shared by the proxy endpoint and its callers.
type Advice struct {
	Advice        string               `json:"advice"`
	FrequencyDays int                  `json:"frequency_days"`
	BestTime      entities.BestTime    `json:"best_time"`
	Amount        entities.WaterAmount `json:"amount"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Identification struct {
	Type       entities.PlantType `json:"type"`
	Species    string             `json:"species"`
	Confidence Confidence         `json:"confidence"`
}

type looseAdvice struct {
	Advice        any `json:"advice"`
	FrequencyDays any `json:"frequency_days"`
	BestTime      any `json:"best_time"`
	Amount        any `json:"amount"`
}

// ParseAdvice validates a model or proxy reply. The advice text is required;
// every other field is clamped or defaulted.
func ParseAdvice(raw string) (*Advice, error) {
	var in looseAdvice
	if err := decodeLenient(raw, &in); err != nil {
		return nil, err
	}
	return ValidateAdvice(in.Advice, in.FrequencyDays, in.BestTime, in.Amount)
}

// ValidateAdvice applies the advice rules to already-decoded values.
func ValidateAdvice(advice, frequency, bestTime, amount any) (*Advice, error) {
	text, _ := advice.(string)
	text = StripMarkup(text)
	if text == "" {
		return nil, fmt.Errorf("%w: advice must be a non-empty string", ErrMalformed)
	}
	out := &Advice{
		Advice:        text,
		FrequencyDays: 7,
		BestTime:      entities.BestTimes[0],
		Amount:        entities.WaterAmounts[1],
	}
	if n, ok := integer(frequency); ok {
		out.FrequencyDays = climate.ClampFrequency(n)
	}
	if s, ok := bestTime.(string); ok {
		for _, v := range entities.BestTimes {
			if strings.EqualFold(strings.TrimSpace(s), string(v)) {
				out.BestTime = v
			}
		}
	}
	if s, ok := amount.(string); ok {
		for _, v := range entities.WaterAmounts {
			if strings.EqualFold(strings.TrimSpace(s), string(v)) {
				out.Amount = v
			}
		}
	}
	return out, nil
}

// ParseIdentification never fails: anything unusable becomes an "Other" guess with low confidence.
func ParseIdentification(raw string) Identification {
	var in struct {
		Type       any `json:"type"`
		Species    any `json:"species"`
		Confidence any `json:"confidence"`
	}
	out := Identification{Type: entities.PlantOther, Confidence: ConfidenceLow}
	if err := decodeLenient(raw, &in); err != nil {
		return out
	}
	if s, ok := in.Type.(string); ok {
		out.Type = NormalizePlantType(s)
	}
	if s, ok := in.Species.(string); ok {
		out.Species = StripMarkup(s)
	}
	if s, ok := in.Confidence.(string); ok {
		switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
		case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
			out.Confidence = c
		}
	}
	return out
}

// synonyms is checked in order; the first key contained in the input wins.
var synonyms = []struct {
	key string
	typ entities.PlantType
}{
	{"cact", entities.PlantCactus}, {"opuntia", entities.PlantCactus},
	{"succulent", entities.PlantSucculent}, {"aloe", entities.PlantSucculent}, {"echeveria", entities.PlantSucculent},
	{"jade", entities.PlantSucculent}, {"haworthia", entities.PlantSucculent}, {"sedum", entities.PlantSucculent},
	{"snake plant", entities.PlantSucculent}, {"sansevieria", entities.PlantSucculent},
	{"orchid", entities.PlantOrchid}, {"phalaenopsis", entities.PlantOrchid},
	{"fern", entities.PlantFern},
	{"palm", entities.PlantPalm}, {"areca", entities.PlantPalm}, {"kentia", entities.PlantPalm},
	{"herb", entities.PlantHerb}, {"basil", entities.PlantHerb}, {"mint", entities.PlantHerb}, {"rosemary", entities.PlantHerb},
	{"thyme", entities.PlantHerb}, {"parsley", entities.PlantHerb}, {"oregano", entities.PlantHerb}, {"cilantro", entities.PlantHerb},
	{"vegetable", entities.PlantVegetable}, {"tomato", entities.PlantVegetable}, {"pepper", entities.PlantVegetable},
	{"lettuce", entities.PlantVegetable}, {"cucumber", entities.PlantVegetable},
	{"flower", entities.PlantFlowering}, {"rose", entities.PlantFlowering}, {"begonia", entities.PlantFlowering},
	{"geranium", entities.PlantFlowering}, {"peace lily", entities.PlantFlowering}, {"anthurium", entities.PlantFlowering},
	{"hibiscus", entities.PlantFlowering}, {"violet", entities.PlantFlowering},
	{"tropical", entities.PlantTropical}, {"monstera", entities.PlantTropical}, {"philodendron", entities.PlantTropical},
	{"pothos", entities.PlantTropical}, {"calathea", entities.PlantTropical}, {"ficus", entities.PlantTropical},
	{"alocasia", entities.PlantTropical}, {"zz plant", entities.PlantTropical},
}

// NormalizePlantType maps free text onto the category list: exact match,
// then synonym substring, then Other.
func NormalizePlantType(s string) entities.PlantType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return entities.PlantOther
	}
	for _, t := range entities.PlantTypes {
		if s == strings.ToLower(string(t)) {
			return t
		}
	}
	for _, syn := range synonyms {
		if strings.Contains(s, syn.key) {
			return syn.typ
		}
	}
	return entities.PlantOther
}

// StripMarkup returns the visible text of s with any HTML tags removed.
func StripMarkup(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// decodeLenient accepts raw JSON, or failing that the first top-level {...} in raw.
func decodeLenient(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	obj, ok := firstObject(raw)
	if !ok {
		return fmt.Errorf("%w: no json object found", ErrMalformed)
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// firstObject finds the first balanced {...} span, skipping braces inside strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inStr, esc := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case esc:
			esc = false
		case inStr && c == '\\':
			esc = true
		case c == '"':
			inStr = !inStr
		case inStr:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func integer(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}
