package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

type gormCallRepository struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) CallRepository {
	return &gormCallRepository{db: db}
}

func (r *gormCallRepository) Create(ctx context.Context, call *domain.Call) error {
	model := CallDomainToModel(call)
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *gormCallRepository) Update(ctx context.Context, call *domain.Call) error {
	model := CallDomainToModel(call)
	return r.db.WithContext(ctx).
		Model(&CallModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":   model.Status,
			"duration": model.Duration,
		}).Error
}

func (r *gormCallRepository) GetByID(ctx context.Context, id string) (*domain.Call, error) {
	var model CallModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return CallModelToDomain(&model), nil
}

func (r *gormCallRepository) GetAll(ctx context.Context) ([]*domain.Call, error) {
	var models []CallModel
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	calls := make([]*domain.Call, len(models))
	for i := range models {
		calls[i] = CallModelToDomain(&models[i])
	}
	return calls, nil
}

func (r *gormCallRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&CallModel{}).Error
}
