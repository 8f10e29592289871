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

// FriendService 好友服务
//
// A friendship is a nameless personal group with exactly two active
// memberships. The pair key on the group keeps concurrent MakeFriends
// calls from creating two groups for the same pair.
type FriendService struct {
	friends repositories.FriendRepository
	log     *logger.Logger
}

func NewFriendService(friends repositories.FriendRepository, log *logger.Logger) *FriendService {
	return &FriendService{friends: friends, log: log}
}

// GetFriends returns the ids of every user sharing an active friendship
// group with the given user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint, page, pageSize int) ([]uint, error) {
	limit, offset := normalizePage(page, pageSize)
	return s.friends.FriendIDs(ctx, userID, limit, offset)
}

// MakeFriends creates a friendship between two users. Calling it again
// for an existing pair returns the same group.
func (s *FriendService) MakeFriends(ctx context.Context, userID, friendID uint) (*models.Group, error) {
	if userID == friendID {
		return nil, apperrors.InvalidArg("cannot befriend yourself")
	}

	key := models.PairKey(userID, friendID)
	if existing, err := s.friends.FindActivePair(ctx, key); err == nil {
		ids, err := s.friends.ActiveMemberIDs(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		if isPair(ids, userID, friendID) {
			return existing, nil
		}
		// The group holding the key no longer has exactly this pair of
		// active members, so it is not the friendship anymore. Retire it
		// to free the key for the group created below.
		if err := s.friends.DeactivatePair(ctx, existing.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	group := &models.Group{
		Type:    models.GroupPersonal,
		PairKey: &key,
		Active:  true,
		Memberships: []models.GroupMembership{
			{UserID: userID, Active: true, NotifyByMessage: true},
			{UserID: friendID, Active: true, NotifyByMessage: true},
		},
	}
	if err := s.friends.CreatePair(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent MakeFriends for the
			// same pair; the winner's group is the friendship.
			return s.friends.FindActivePair(ctx, key)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "friendship created",
		zap.Uint("group_id", group.ID),
		zap.Uint("user_id", userID),
		zap.Uint("friend_id", friendID),
	)
	return group, nil
}

// RemoveFriends dissolves the friendship between two users.
func (s *FriendService) RemoveFriends(ctx context.Context, userID, friendID uint) error {
	if userID == friendID {
		return apperrors.InvalidArg("cannot unfriend yourself")
	}

	key := models.PairKey(userID, friendID)
	group, err := s.friends.FindActivePair(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("friendship not found")
		}
		return err
	}

	memberIDs, err := s.friends.ActiveMemberIDs(ctx, group.ID)
	if err != nil {
		return err
	}
	if !isPair(memberIDs, userID, friendID) {
		return apperrors.NotFound("friendship not found")
	}

	if err := s.friends.DeactivatePair(ctx, group.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("friendship not found")
		}
		return err
	}

	s.log.InfoContext(ctx, "friendship removed",
		zap.Uint("group_id", group.ID),
		zap.Uint("user_id", userID),
		zap.Uint("friend_id", friendID),
	)
	return nil
}

func isPair(ids []uint, a, b uint) bool {
	if len(ids) != 2 {
		return false
	}
	return (ids[0] == a && ids[1] == b) || (ids[0] == b && ids[1] == a)
}
