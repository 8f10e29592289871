package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/models"
)

// StatusRepository is the storage surface of per-receiver delivery state.
type StatusRepository interface {
	Get(ctx context.Context, messageID int64, receiverID uint) (*models.MessageStatus, error)
	Save(ctx context.Context, status *models.MessageStatus) error
	UnreadCount(ctx context.Context, receiverID uint) (int64, error)
}

type statusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) Get(ctx context.Context, messageID int64, receiverID uint) (*models.MessageStatus, error) {
	var status models.MessageStatus
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND receiver_id = ?", messageID, receiverID).
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) Save(ctx context.Context, status *models.MessageStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}

// UnreadCount counts new statuses whose message is still active and not a
// draft.
func (r *statusRepository) UnreadCount(ctx context.Context, receiverID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MessageStatus{}).
		Joins("JOIN messages ON messages.id = message_statuses.message_id").
		Where("message_statuses.receiver_id = ? AND message_statuses.value = ?", receiverID, models.StatusNew).
		Where("messages.active = ? AND messages.draft = ?", true, false).
		Count(&count).Error
	return count, err
}
