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

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxGroupName    = 128
)

// normalizePage converts 1-based page parameters to limit/offset and
// clamps the page size.
func normalizePage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// GroupService 群组目录服务
type GroupService struct {
	groups repositories.GroupRepository
	log    *logger.Logger
}

func NewGroupService(groups repositories.GroupRepository, log *logger.Logger) *GroupService {
	return &GroupService{groups: groups, log: log}
}

// CreateGroup creates a conversation. A name is required for every type
// except personal; personal groups are created nameless by the friend
// graph.
func (s *GroupService) CreateGroup(ctx context.Context, groupType models.GroupType, name *string) (*models.Group, error) {
	if !models.ValidGroupType(groupType) {
		return nil, apperrors.InvalidArg("unknown group type")
	}
	if name != nil && *name == "" {
		name = nil
	}
	if groupType != models.GroupPersonal && name == nil {
		return nil, apperrors.InvalidArg("group name is required")
	}
	if name != nil && len(*name) > maxGroupName {
		return nil, apperrors.InvalidArg("group name too long")
	}

	group := &models.Group{
		Name:   name,
		Type:   groupType,
		Active: true,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.AlreadyExists("group name already exists")
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "group created",
		zap.Uint("group_id", group.ID), zap.String("type", string(group.Type)))
	return group, nil
}

// AddMember adds a user to a group, reactivating a previously removed
// membership when one exists.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID uint, notifyByMessage, notifyByEmail bool) (*models.GroupMembership, error) {
	if _, err := s.groups.GetActiveByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("group not found")
		}
		return nil, err
	}

	member, err := s.groups.GetMembership(ctx, groupID, userID)
	switch {
	case err == nil:
		if member.Active {
			return nil, apperrors.AlreadyExists("membership already exists")
		}
		member.Active = true
		member.NotifyByMessage = notifyByMessage
		member.NotifyByEmail = notifyByEmail
		if err := s.groups.SaveMembership(ctx, member); err != nil {
			return nil, err
		}
		return member, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		member = &models.GroupMembership{
			GroupID:         groupID,
			UserID:          userID,
			Active:          true,
			NotifyByMessage: notifyByMessage,
			NotifyByEmail:   notifyByEmail,
		}
		if err := s.groups.CreateMembership(ctx, member); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.AlreadyExists("membership already exists")
			}
			return nil, err
		}
		return member, nil
	default:
		return nil, err
	}
}

// RemoveMember deactivates an active membership.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID uint) error {
	member, err := s.groups.GetMembership(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("membership not found")
		}
		return err
	}
	if !member.Active {
		return apperrors.NotFound("membership not found")
	}

	member.Active = false
	return s.groups.SaveMembership(ctx, member)
}

// ListMessages pages through the active messages of a group, optionally
// restricted to one sender.
func (s *GroupService) ListMessages(ctx context.Context, groupID uint, senderID *uint, page, pageSize int) ([]models.Message, int64, error) {
	if _, err := s.groups.GetActiveByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("group not found")
		}
		return nil, 0, err
	}
	limit, offset := normalizePage(page, pageSize)
	return s.groups.ListMessages(ctx, groupID, senderID, limit, offset)
}

// ListMemberships pages through the active memberships of a group.
func (s *GroupService) ListMemberships(ctx context.Context, groupID uint, userID *uint, page, pageSize int) ([]models.GroupMembership, int64, error) {
	if _, err := s.groups.GetActiveByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("group not found")
		}
		return nil, 0, err
	}
	limit, offset := normalizePage(page, pageSize)
	return s.groups.ListMemberships(ctx, groupID, userID, limit, offset)
}

// DeactivateGroup soft-deletes the group and everything it owns.
func (s *GroupService) DeactivateGroup(ctx context.Context, groupID uint) error {
	if err := s.groups.Deactivate(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("group not found")
		}
		return err
	}
	s.log.InfoContext(ctx, "group deactivated", zap.Uint("group_id", groupID))
	return nil
}

// DeleteGroup removes the group and everything it owns.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID uint) error {
	if err := s.groups.Delete(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("group not found")
		}
		return err
	}
	s.log.InfoContext(ctx, "group deleted", zap.Uint("group_id", groupID))
	return nil
}
