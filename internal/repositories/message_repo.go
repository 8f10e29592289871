package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/models"
)

// MessageRepository is the storage surface of the message store.
type MessageRepository interface {
	// Create persists the message together with its variant payload and
	// fan-out status rows in a single transaction (GORM nests the
	// associations inside one Create).
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	GetActiveByID(ctx context.Context, id int64) (*models.Message, error)

	Outgoing(ctx context.Context, senderID uint, draftOnly bool, limit, offset int) ([]models.Message, int64, error)
	Incoming(ctx context.Context, receiverID uint, onlyNew bool, limit, offset int) ([]models.Message, int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Preload("Text").Preload("File").Preload("URL").
		First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) GetActiveByID(ctx context.Context, id int64) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Preload("Text").Preload("File").Preload("URL").
		Where("id = ? AND active = ?", id, true).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Outgoing(ctx context.Context, senderID uint, draftOnly bool, limit, offset int) ([]models.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND active = ?", senderID, true)
	if draftOnly {
		query = query.Where("draft = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := query.
		Preload("Text").Preload("File").Preload("URL").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, total, err
}

// Incoming lists active non-draft messages that have a status row for the
// receiver. Drafts stay invisible to recipients until they stop being
// drafts.
func (r *messageRepository) Incoming(ctx context.Context, receiverID uint, onlyNew bool, limit, offset int) ([]models.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Message{}).
		Joins("JOIN message_statuses ON message_statuses.message_id = messages.id").
		Where("message_statuses.receiver_id = ?", receiverID).
		Where("messages.active = ? AND messages.draft = ?", true, false)
	if onlyNew {
		query = query.Where("message_statuses.value = ?", models.StatusNew)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := query.
		Preload("Text").Preload("File").Preload("URL").
		Order("messages.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, total, err
}
