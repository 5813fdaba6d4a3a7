package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

type gormStoryRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &gormStoryRepository{db: db}
}

func (r *gormStoryRepository) Create(ctx context.Context, story *domain.Story) error {
	model := StoryDomainToModel(story)
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *gormStoryRepository) Update(ctx context.Context, story *domain.Story) error {
	model := StoryDomainToModel(story)
	return r.db.WithContext(ctx).
		Model(&StoryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"viewed_by": model.ViewedBy,
			"caption":   model.Caption,
			"privacy":   model.Privacy,
		}).Error
}

func (r *gormStoryRepository) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	var model StoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return StoryModelToDomain(&model), nil
}

func (r *gormStoryRepository) GetAll(ctx context.Context) ([]*domain.Story, error) {
	var models []StoryModel
	if err := r.db.WithContext(ctx).Order("story_created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	stories := make([]*domain.Story, len(models))
	for i := range models {
		stories[i] = StoryModelToDomain(&models[i])
	}
	return stories, nil
}

func (r *gormStoryRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Story, error) {
	var models []StoryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("story_created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	stories := make([]*domain.Story, len(models))
	for i := range models {
		stories[i] = StoryModelToDomain(&models[i])
	}
	return stories, nil
}

func (r *gormStoryRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&StoryModel{}).Error
}
