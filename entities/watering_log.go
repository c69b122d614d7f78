package entities

import "time"

// WateringLog is an immutable history record. It is only removed together with its plant.
type WateringLog struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	PlantID   string    `gorm:"index;not null" json:"plant_id"`
	WateredAt time.Time `gorm:"index" json:"watered_at"`
}
