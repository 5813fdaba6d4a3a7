package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	model := UserDomainToModel(user)
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *gormUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	model := UserDomainToModel(user)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(model).Error
}

func (r *gormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return UserModelToDomain(&model), nil
}

func (r *gormUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "phone = ?", phone).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return UserModelToDomain(&model), nil
}

func (r *gormUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("first_name ASC, last_name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, len(models))
	for i := range models {
		users[i] = UserModelToDomain(&models[i])
	}
	return users, nil
}

func (r *gormUserRepository) Search(ctx context.Context, query string) ([]*domain.User, error) {
	likePattern := "%" + escapeLike(query) + "%"

	var models []UserModel
	err := r.db.WithContext(ctx).
		Where("first_name LIKE ? ESCAPE '\\' OR last_name LIKE ? ESCAPE '\\' OR phone LIKE ? ESCAPE '\\'",
			likePattern, likePattern, likePattern).
		Order("first_name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, len(models))
	for i := range models {
		users[i] = UserModelToDomain(&models[i])
	}
	return users, nil
}

func (r *gormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormUserRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&UserModel{}).Error
}

// escapeLike escapes LIKE special characters in user-provided queries.
func escapeLike(query string) string {
	escaped := strings.ReplaceAll(query, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "%", "\\%")
	escaped = strings.ReplaceAll(escaped, "_", "\\_")
	return escaped
}
