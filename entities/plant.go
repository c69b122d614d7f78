package entities

import "time"

type PlantType string

const (
	PlantSucculent PlantType = "Succulent"
	PlantCactus    PlantType = "Cactus"
	PlantTropical  PlantType = "Tropical"
	PlantFern      PlantType = "Fern"
	PlantFlowering PlantType = "Flowering"
	PlantHerb      PlantType = "Herb"
	PlantVegetable PlantType = "Vegetable"
	PlantPalm      PlantType = "Palm"
	PlantOrchid    PlantType = "Orchid"
	PlantOther     PlantType = "Other"
)

// PlantTypes is the closed category list, in display order.
var PlantTypes = []PlantType{
	PlantSucculent, PlantCactus, PlantTropical, PlantFern, PlantFlowering,
	PlantHerb, PlantVegetable, PlantPalm, PlantOrchid, PlantOther,
}

func (t PlantType) Valid() bool {
	for _, k := range PlantTypes {
		if k == t {
			return true
		}
	}
	return false
}

type Plant struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	Type     PlantType `gorm:"index;not null" json:"type"`
	Species  string    `json:"species"`
	Nickname string    `json:"nickname"`
	// Photo is either empty or a self-contained data URL.
	Photo          string          `json:"photo"`
	LastWatered    *time.Time      `json:"last_watered"`
	WateringAdvice *WateringAdvice `gorm:"serializer:json" json:"watering_advice,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName prefers the nickname, then species, then the category.
func (p *Plant) DisplayName() string {
	switch {
	case p.Nickname != "":
		return p.Nickname
	case p.Species != "":
		return p.Species
	default:
		return string(p.Type)
	}
}

type BestTime string

const (
	BestTimeMorning   BestTime = "morning"
	BestTimeAfternoon BestTime = "afternoon"
	BestTimeEvening   BestTime = "evening"
)

var BestTimes = []BestTime{BestTimeMorning, BestTimeAfternoon, BestTimeEvening}

type WaterAmount string

const (
	AmountLight    WaterAmount = "light"
	AmountModerate WaterAmount = "moderate"
	AmountGenerous WaterAmount = "generous"
)

var WaterAmounts = []WaterAmount{AmountLight, AmountModerate, AmountGenerous}

type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonAutumn Season = "Autumn"
	SeasonWinter Season = "Winter"
)

// WateringAdvice is cached on the plant and always replaced as a whole.
type WateringAdvice struct {
	Advice        string      `json:"advice"`
	FrequencyDays int         `json:"frequency_days"`
	BestTime      BestTime    `json:"best_time"`
	Amount        WaterAmount `json:"amount"`
	GeneratedAt   time.Time   `json:"generated_at"`
	Season        Season      `json:"season"`
	Location      string      `json:"location"`
	IsFallback    bool        `json:"is_fallback"`
}
