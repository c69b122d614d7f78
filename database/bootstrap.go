// database/bootstrap.go
package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"plantcare/entities"
)

// OpenSQLite opens the on-device store and brings the schema up to date.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one writer at a time; the app serves a single local session
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// collapse stray settings rows BEFORE AutoMigrate touches the table
	if err := migrateSettingsSingleton(db); err != nil {
		return nil, fmt.Errorf("migrate settings: %w", err)
	}

	if err := db.AutoMigrate(
		&entities.Plant{},
		&entities.WateringLog{},
		&entities.UserSettings{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// migrateSettingsSingleton keeps only the newest settings row and re-keys it to the sentinel id.
func migrateSettingsSingleton(db *gorm.DB) error {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='user_settings'`).Scan(&tbl).Error; err != nil {
		return fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		// fresh DB, nothing to do
		return nil
	}

	var ids []string
	if err := db.Table("user_settings").Order("updated_at DESC").Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list settings: %w", err)
	}
	if len(ids) == 0 || (len(ids) == 1 && ids[0] == entities.SettingsID) {
		return nil
	}

	keep := ids[0]
	for _, id := range ids {
		if id == entities.SettingsID {
			keep = id
			break
		}
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM user_settings WHERE id <> ?`, keep).Error; err != nil {
			return err
		}
		if keep != entities.SettingsID {
			if err := tx.Exec(`UPDATE user_settings SET id = ? WHERE id = ?`, entities.SettingsID, keep).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
