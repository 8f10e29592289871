package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/models"
)

// ReactionRepository is the storage surface of message reactions.
type ReactionRepository interface {
	// Create inserts the reaction; a duplicate (message, user, value)
	// triple surfaces as gorm.ErrDuplicatedKey via the unique index.
	Create(ctx context.Context, reaction *models.MessageReaction) error
	Delete(ctx context.Context, messageID int64, userID uint, value string) (int64, error)
	List(ctx context.Context, messageID int64) ([]models.MessageReaction, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.MessageReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) Delete(ctx context.Context, messageID int64, userID uint, value string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND value = ?", messageID, userID, value).
		Delete(&models.MessageReaction{})
	return res.RowsAffected, res.Error
}

func (r *reactionRepository) List(ctx context.Context, messageID int64) ([]models.MessageReaction, error) {
	var reactions []models.MessageReaction
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("id").
		Find(&reactions).Error
	return reactions, err
}
