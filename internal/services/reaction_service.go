package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/models"
	"github.com/Gopher0727/Messenger/internal/repositories"
	logger "github.com/Gopher0727/Messenger/middleware/log"
	apperrors "github.com/Gopher0727/Messenger/pkg/errors"
)

const maxReactionValue = 32

// ReactionService 消息回应服务
type ReactionService struct {
	reactions repositories.ReactionRepository
	messages  repositories.MessageRepository
	log       *logger.Logger
}

func NewReactionService(reactions repositories.ReactionRepository, messages repositories.MessageRepository, log *logger.Logger) *ReactionService {
	return &ReactionService{reactions: reactions, messages: messages, log: log}
}

// AddReaction records one (message, user, value) fact. The same user may
// react to the same message with different values, never twice with the
// same one.
func (s *ReactionService) AddReaction(ctx context.Context, messageID int64, userID uint, value string) (*models.MessageReaction, error) {
	if value == "" || len(value) > maxReactionValue {
		return nil, apperrors.InvalidArg("invalid reaction value")
	}

	if _, err := s.messages.GetActiveByID(ctx, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("message not found")
		}
		return nil, err
	}

	reaction := &models.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Value:     value,
	}
	if err := s.reactions.Create(ctx, reaction); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.AlreadyExists("reaction already exists")
		}
		return nil, err
	}

	s.log.DebugContext(ctx, "reaction added",
		zap.Int64("message_id", messageID), zap.Uint("user_id", userID))
	return reaction, nil
}

// RemoveReaction deletes the exact (message, user, value) triple.
func (s *ReactionService) RemoveReaction(ctx context.Context, messageID int64, userID uint, value string) error {
	rows, err := s.reactions.Delete(ctx, messageID, userID, value)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("reaction not found")
	}
	return nil
}

// ListReactions returns every reaction of a message.
func (s *ReactionService) ListReactions(ctx context.Context, messageID int64) ([]models.MessageReaction, error) {
	if _, err := s.messages.GetActiveByID(ctx, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("message not found")
		}
		return nil, err
	}
	return s.reactions.List(ctx, messageID)
}
