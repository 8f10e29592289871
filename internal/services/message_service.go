package services

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/events"
	"github.com/Gopher0727/Messenger/internal/identity"
	"github.com/Gopher0727/Messenger/internal/models"
	"github.com/Gopher0727/Messenger/internal/repositories"
	logger "github.com/Gopher0727/Messenger/middleware/log"
	apperrors "github.com/Gopher0727/Messenger/pkg/errors"
	"github.com/Gopher0727/Messenger/utils/snowflake"
)

// MessageService 消息服务
type MessageService struct {
	messages repositories.MessageRepository
	groups   repositories.GroupRepository
	ids      *snowflake.Generator
	resolver identity.Resolver
	producer *events.Producer // nil means degraded mode, events are skipped
	log      *logger.Logger
}

func NewMessageService(
	messages repositories.MessageRepository,
	groups repositories.GroupRepository,
	ids *snowflake.Generator,
	resolver identity.Resolver,
	producer *events.Producer,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		messages: messages,
		groups:   groups,
		ids:      ids,
		resolver: resolver,
		producer: producer,
		log:      log,
	}
}

// CreateMessageRequest carries the variant payload of a new message.
// Body is the text payload; Resource is the URL payload of file/url
// variants.
type CreateMessageRequest struct {
	Variant     models.MessageVariant `json:"variant" binding:"required"`
	GroupID     uint                  `json:"group_id" binding:"required"`
	ContentType string                `json:"content_type"`
	Body        string                `json:"body"`
	Resource    string                `json:"resource"`
	Draft       bool                  `json:"draft"`
}

func validResourceURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// CreateMessage validates the variant payload, persists the message and
// fans out a new status row per active recipient, all in one transaction.
// The message.created event goes out after commit; drafts produce no
// event.
func (s *MessageService) CreateMessage(ctx context.Context, senderID uint, req *CreateMessageRequest) (*models.Message, error) {
	if !models.ValidVariant(req.Variant) {
		return nil, apperrors.InvalidArg("unknown message variant")
	}

	message := &models.Message{
		SenderID:      senderID,
		GroupID:       req.GroupID,
		Active:        true,
		Draft:         req.Draft,
		Discriminator: req.Variant,
	}

	switch req.Variant {
	case models.VariantText:
		if req.Body == "" {
			return nil, apperrors.InvalidArg("text message requires a body")
		}
		contentType := req.ContentType
		if contentType == "" {
			contentType = models.DefaultTextContentType
		}
		message.Text = &models.TextMessage{ContentType: contentType, Value: req.Body}
	case models.VariantFile, models.VariantURL:
		if req.ContentType == "" {
			return nil, apperrors.InvalidArg("content type is required")
		}
		if req.Resource == "" {
			return nil, apperrors.InvalidArg("resource is required")
		}
		if !validResourceURL(req.Resource) {
			return nil, apperrors.InvalidArg("resource must be a valid URL")
		}
		if req.Variant == models.VariantFile {
			message.File = &models.FileMessage{ContentType: req.ContentType, Value: req.Resource}
		} else {
			message.URL = &models.URLMessage{ContentType: req.ContentType, Value: req.Resource}
		}
	}

	if _, err := s.groups.GetActiveByID(ctx, req.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("group not found")
		}
		return nil, err
	}

	memberIDs, err := s.groups.ActiveMemberIDs(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.NextID()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "generate message id", err)
	}
	message.ID = id

	recipients := make([]uint, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		if memberID == senderID {
			continue
		}
		recipients = append(recipients, memberID)
		message.Statuses = append(message.Statuses, models.MessageStatus{
			Value:      models.StatusNew,
			ReceiverID: memberID,
		})
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "message created",
		zap.Int64("message_id", message.ID),
		zap.Uint("group_id", message.GroupID),
		zap.Uint("sender_id", senderID),
		zap.Int("recipients", len(recipients)))

	if s.producer != nil && !message.Draft {
		event := events.MessageCreated{
			MessageID:    message.ID,
			GroupID:      message.GroupID,
			SenderID:     senderID,
			RecipientIDs: recipients,
		}
		if err := s.producer.PublishMessageCreated(event); err != nil {
			// Delivery is best effort; the write already committed
			s.log.WarnContext(ctx, "message.created event not published",
				zap.Int64("message_id", message.ID), zap.Error(err))
		}
	}

	return message, nil
}

// GetMessage returns one active message with its payload.
func (s *MessageService) GetMessage(ctx context.Context, messageID int64) (*models.Message, error) {
	message, err := s.messages.GetActiveByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("message not found")
		}
		return nil, err
	}
	return message, nil
}

// OutgoingMessages pages through the active messages sent by a user.
func (s *MessageService) OutgoingMessages(ctx context.Context, senderID uint, page, pageSize int) ([]models.Message, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.messages.Outgoing(ctx, senderID, false, limit, offset)
}

// DraftMessages pages through the sender's drafts.
func (s *MessageService) DraftMessages(ctx context.Context, senderID uint, page, pageSize int) ([]models.Message, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.messages.Outgoing(ctx, senderID, true, limit, offset)
}

// IncomingMessages pages through messages delivered to a receiver.
func (s *MessageService) IncomingMessages(ctx context.Context, receiverID uint, page, pageSize int) ([]models.Message, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.messages.Incoming(ctx, receiverID, false, limit, offset)
}

// NewMessages pages through undelivered (status new) messages of a
// receiver.
func (s *MessageService) NewMessages(ctx context.Context, receiverID uint, page, pageSize int) ([]models.Message, int64, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.messages.Incoming(ctx, receiverID, true, limit, offset)
}

// ResolveUser delegates to the identity service. One attempt only; a
// resolution failure never touches committed state.
func (s *MessageService) ResolveUser(ctx context.Context, userID uint) (*identity.Profile, error) {
	return s.resolver.ResolveUser(ctx, userID)
}

// ResolveSender resolves the profile of a message's sender.
func (s *MessageService) ResolveSender(ctx context.Context, message *models.Message) (*identity.Profile, error) {
	return s.resolver.ResolveUser(ctx, message.SenderID)
}
