package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chatterbox-im/chatterbox/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	model := MessageDomainToModel(msg)
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *gormMessageRepository) Update(ctx context.Context, msg *domain.Message) error {
	model := MessageDomainToModel(msg)
	return r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"type":      model.Type,
			"content":   model.Content,
			"status":    model.Status,
			"edited":    model.Edited,
			"edited_at": model.EditedAt,
			"reactions": model.Reactions,
			"mentions":  model.Mentions,
		}).Error
}

func (r *gormMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var model MessageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return MessageModelToDomain(&model), nil
}

func (r *gormMessageRepository) GetByChatID(ctx context.Context, chatID string) ([]*domain.Message, error) {
	var models []MessageModel
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, len(models))
	for i := range models {
		messages[i] = MessageModelToDomain(&models[i])
	}
	return messages, nil
}

func (r *gormMessageRepository) GetAll(ctx context.Context) ([]*domain.Message, error) {
	var models []MessageModel
	if err := r.db.WithContext(ctx).Order("timestamp ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, len(models))
	for i := range models {
		messages[i] = MessageModelToDomain(&models[i])
	}
	return messages, nil
}

func (r *gormMessageRepository) MarkChatRead(ctx context.Context, chatID, readerID string) error {
	return r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("chat_id = ? AND sender_id <> ? AND status <> ?", chatID, readerID, string(domain.MessageStatusRead)).
		Update("status", string(domain.MessageStatusRead)).Error
}

func (r *gormMessageRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Message, error) {
	likePattern := "%" + escapeLike(query) + "%"

	var models []MessageModel
	q := r.db.WithContext(ctx).
		Where("content LIKE ? ESCAPE '\\'", likePattern).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, len(models))
	for i := range models {
		messages[i] = MessageModelToDomain(&models[i])
	}
	return messages, nil
}

func (r *gormMessageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&MessageModel{}).Error
}

func (r *gormMessageRepository) DeleteByChatID(ctx context.Context, chatID string) error {
	return r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Delete(&MessageModel{}).Error
}

func (r *gormMessageRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&MessageModel{}).Error
}
