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

// StatusService owns the per-receiver delivery state machine. The only
// transition is new to read; there is no way back.
type StatusService struct {
	statuses repositories.StatusRepository
	log      *logger.Logger
}

func NewStatusService(statuses repositories.StatusRepository, log *logger.Logger) *StatusService {
	return &StatusService{statuses: statuses, log: log}
}

// MarkRead moves the (message, receiver) status to read. Calling it on an
// already-read status is a no-op, not an error.
func (s *StatusService) MarkRead(ctx context.Context, messageID int64, receiverID uint) error {
	status, err := s.statuses.Get(ctx, messageID, receiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("message status not found")
		}
		return err
	}
	if status.Value == models.StatusRead {
		return nil
	}

	status.Value = models.StatusRead
	if err := s.statuses.Save(ctx, status); err != nil {
		return err
	}

	s.log.DebugContext(ctx, "message read",
		zap.Int64("message_id", messageID), zap.Uint("receiver_id", receiverID))
	return nil
}

// UnreadCount returns how many delivered messages the receiver has not
// read yet.
func (s *StatusService) UnreadCount(ctx context.Context, receiverID uint) (int64, error) {
	return s.statuses.UnreadCount(ctx, receiverID)
}
