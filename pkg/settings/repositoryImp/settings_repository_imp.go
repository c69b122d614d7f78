package repositoryImp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plantcare/entities"
	"plantcare/pkg/events"
	"plantcare/pkg/settings"
	"plantcare/pkg/settings/repository"
)

type settingsRepo struct {
	db  *gorm.DB
	pub events.Publisher
}

func New(db *gorm.DB, pub events.Publisher) repository.SettingsRepository {
	return &settingsRepo{db: db, pub: pub}
}

func (r *settingsRepo) Get(ctx context.Context) (*entities.UserSettings, error) {
	var s entities.UserSettings
	err := r.db.WithContext(ctx).Where("id = ?", entities.SettingsID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, settings.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save upserts; created_at survives an overwrite.
func (r *settingsRepo) Save(ctx context.Context, s *entities.UserSettings) error {
	s.ID = entities.SettingsID
	s.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err != nil {
		return err
	}
	r.changed()
	return nil
}

func (r *settingsRepo) SetPermission(ctx context.Context, p entities.NotificationPermission) error {
	return r.update(ctx, "notification_permission", p)
}

func (r *settingsRepo) MarkReminderSent(ctx context.Context, at time.Time) error {
	return r.update(ctx, "last_notification_sent", at)
}

func (r *settingsRepo) update(ctx context.Context, column string, v any) error {
	res := r.db.WithContext(ctx).Model(&entities.UserSettings{ID: entities.SettingsID}).Update(column, v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return settings.ErrNotFound
	}
	r.changed()
	return nil
}

func (r *settingsRepo) changed() {
	events.Publish(r.pub, events.Message{Channel: events.ChannelSettings, Event: events.EventPut, ID: entities.SettingsID})
}
