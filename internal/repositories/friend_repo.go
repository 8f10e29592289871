package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/models"
)

// FriendRepository reads and writes the personal groups that encode
// pairwise friendship.
type FriendRepository interface {
	// FindActivePair looks up the active personal group by its membership
	// fingerprint.
	FindActivePair(ctx context.Context, pairKey string) (*models.Group, error)
	// ActiveMemberIDs returns the active member set of a group, ordered.
	ActiveMemberIDs(ctx context.Context, groupID uint) ([]uint, error)
	// CreatePair inserts the personal group with its two memberships in one
	// transaction; a concurrent creation of the same pair surfaces as
	// gorm.ErrDuplicatedKey via the pair_key unique index.
	CreatePair(ctx context.Context, group *models.Group) error
	// DeactivatePair retires the group and both memberships and clears the
	// pair key so the pair can be re-friended later.
	DeactivatePair(ctx context.Context, groupID uint) error
	// FriendIDs lists the other active members of active personal groups
	// containing userID, de-duplicated and ordered.
	FriendIDs(ctx context.Context, userID uint, limit, offset int) ([]uint, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) FindActivePair(ctx context.Context, pairKey string) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).
		Where("pair_key = ? AND type = ? AND active = ?", pairKey, models.GroupPersonal, true).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *friendRepository) ActiveMemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.GroupMembership{}).
		Where("group_id = ? AND active = ?", groupID, true).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *friendRepository) CreatePair(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *friendRepository) DeactivatePair(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Group{}).
			Where("id = ? AND active = ?", groupID, true).
			Updates(map[string]any{"active": false, "pair_key": nil})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.GroupMembership{}).
			Where("group_id = ?", groupID).
			Update("active", false).Error
	})
}

func (r *friendRepository) FriendIDs(ctx context.Context, userID uint, limit, offset int) ([]uint, error) {
	own := r.db.Model(&models.GroupMembership{}).
		Select("groups_memberships.group_id").
		Joins("JOIN groups ON groups.id = groups_memberships.group_id").
		Where("groups.type = ? AND groups.active = ?", models.GroupPersonal, true).
		Where("groups_memberships.user_id = ? AND groups_memberships.active = ?", userID, true)

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.GroupMembership{}).
		Distinct("user_id").
		Where("group_id IN (?)", own).
		Where("active = ? AND user_id <> ?", true, userID).
		Order("user_id").
		Limit(limit).
		Offset(offset).
		Pluck("user_id", &ids).Error
	return ids, err
}
