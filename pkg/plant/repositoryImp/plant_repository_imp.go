package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"plantcare/entities"
	"plantcare/pkg/events"
	"plantcare/pkg/plant"
	"plantcare/pkg/plant/repository"
)

type plantRepo struct {
	db  *gorm.DB
	pub events.Publisher
}

func New(db *gorm.DB, pub events.Publisher) repository.PlantRepository {
	return &plantRepo{db: db, pub: pub}
}

func (r *plantRepo) Create(ctx context.Context, p *entities.Plant) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	r.changed(p.ID, events.EventPut)
	return nil
}

func (r *plantRepo) FindByID(ctx context.Context, id string) (*entities.Plant, error) {
	var p entities.Plant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, plant.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *plantRepo) List(ctx context.Context) ([]entities.Plant, error) {
	var out []entities.Plant
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantRepo) Update(ctx context.Context, id string, patch repository.Patch) error {
	fields := map[string]any{}
	if patch.Type != nil {
		fields["type"] = *patch.Type
	}
	if patch.Species != nil {
		fields["species"] = *patch.Species
	}
	if patch.Nickname != nil {
		fields["nickname"] = *patch.Nickname
	}
	if patch.Photo != nil {
		fields["photo"] = *patch.Photo
	}
	if patch.ClearAdvice {
		fields["watering_advice"] = gorm.Expr("NULL")
	}
	if len(fields) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}
	return r.updateColumns(ctx, id, func(tx *gorm.DB) *gorm.DB { return tx.Updates(fields) })
}

func (r *plantRepo) SetAdvice(ctx context.Context, id string, adv *entities.WateringAdvice) error {
	return r.updateColumns(ctx, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Select("watering_advice").Updates(&entities.Plant{WateringAdvice: adv})
	})
}

func (r *plantRepo) updateColumns(ctx context.Context, id string, apply func(*gorm.DB) *gorm.DB) error {
	if id == "" {
		return plant.ErrNotFound
	}
	res := apply(r.db.WithContext(ctx).Model(&entities.Plant{ID: id}))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return plant.ErrNotFound
	}
	r.changed(id, events.EventPut)
	return nil
}

func (r *plantRepo) Delete(ctx context.Context, id string) error {
	var logs int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("plant_id = ?", id).Delete(&entities.WateringLog{})
		if res.Error != nil {
			return res.Error
		}
		logs = res.RowsAffected
		res = tx.Where("id = ?", id).Delete(&entities.Plant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return plant.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.changed(id, events.EventDelete)
	if logs > 0 {
		events.Publish(r.pub, events.Message{Channel: events.ChannelWateringLogs, Event: events.EventDelete, ID: id})
	}
	return nil
}

func (r *plantRepo) changed(id string, ev events.Event) {
	events.Publish(r.pub, events.Message{Channel: events.ChannelPlants, Event: ev, ID: id})
}
