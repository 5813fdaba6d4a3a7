package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

type gormBroadcastRepository struct {
	db *gorm.DB
}

func NewBroadcastRepository(db *gorm.DB) BroadcastRepository {
	return &gormBroadcastRepository{db: db}
}

func (r *gormBroadcastRepository) Create(ctx context.Context, broadcast *domain.Broadcast) error {
	model := BroadcastDomainToModel(broadcast)
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *gormBroadcastRepository) Update(ctx context.Context, broadcast *domain.Broadcast) error {
	model := BroadcastDomainToModel(broadcast)
	return r.db.WithContext(ctx).
		Model(&BroadcastModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"participants":  model.Participants,
			"message_count": model.MessageCount,
		}).Error
}

func (r *gormBroadcastRepository) GetByID(ctx context.Context, id string) (*domain.Broadcast, error) {
	var model BroadcastModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return BroadcastModelToDomain(&model), nil
}

func (r *gormBroadcastRepository) GetAll(ctx context.Context) ([]*domain.Broadcast, error) {
	var models []BroadcastModel
	if err := r.db.WithContext(ctx).Order("broadcast_created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	broadcasts := make([]*domain.Broadcast, len(models))
	for i := range models {
		broadcasts[i] = BroadcastModelToDomain(&models[i])
	}
	return broadcasts, nil
}

func (r *gormBroadcastRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&BroadcastModel{}).Error
}
