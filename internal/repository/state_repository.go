package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gorm.io/datatypes"
)

// Well-known app_state keys.
const (
	StateKeyLoggedIn        = "logged_in"
	StateKeyCurrentUser     = "current_user"
	StateKeyArchivedChats   = "archived_chats"
	StateKeyBlockedContacts = "blocked_contacts"
	StateKeyTheme           = "theme"
	StateKeyDraftPrefix     = "draft:"
)

type gormStateRepository struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) StateRepository {
	return &gormStateRepository{db: db}
}

func (r *gormStateRepository) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	var model StateModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(model.Value, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *gormStateRepository) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	model := &StateModel{Key: key, Value: datatypes.JSON(data)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(model).Error
}

func (r *gormStateRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&StateModel{}).Error
}

func (r *gormStateRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&StateModel{}).Error
}
