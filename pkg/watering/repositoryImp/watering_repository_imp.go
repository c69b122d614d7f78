package repositoryImp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantcare/entities"
	"plantcare/pkg/events"
	"plantcare/pkg/plant"
	"plantcare/pkg/watering/repository"
)

type wateringRepo struct {
	db  *gorm.DB
	pub events.Publisher
}

func New(db *gorm.DB, pub events.Publisher) repository.WateringRepository {
	return &wateringRepo{db: db, pub: pub}
}

func (r *wateringRepo) Water(ctx context.Context, plantID string, at time.Time) (*entities.WateringLog, error) {
	log := &entities.WateringLog{ID: uuid.NewString(), PlantID: plantID, WateredAt: at}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Plant{}).Where("id = ?", plantID).Update("last_watered", at)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return plant.ErrNotFound
		}
		return tx.Create(log).Error
	})
	if err != nil {
		return nil, err
	}
	// both writes are visible before anyone is told
	events.Publish(r.pub, events.Message{Channel: events.ChannelWateringLogs, Event: events.EventPut, ID: log.ID, Data: log})
	events.Publish(r.pub, events.Message{Channel: events.ChannelPlants, Event: events.EventPut, ID: plantID})
	return log, nil
}

func (r *wateringRepo) ListByPlant(ctx context.Context, plantID string) ([]entities.WateringLog, error) {
	var out []entities.WateringLog
	err := r.db.WithContext(ctx).Where("plant_id = ?", plantID).Order("watered_at DESC").Find(&out).Error
	return out, err
}

func (r *wateringRepo) ListAll(ctx context.Context) ([]entities.WateringLog, error) {
	var out []entities.WateringLog
	err := r.db.WithContext(ctx).Order("watered_at DESC").Find(&out).Error
	return out, err
}
