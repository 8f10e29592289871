package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/Messenger/internal/models"
)

// GroupRepository is the storage surface of the group directory.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetActiveByID(ctx context.Context, id uint) (*models.Group, error)

	CreateMembership(ctx context.Context, member *models.GroupMembership) error
	GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error)
	SaveMembership(ctx context.Context, member *models.GroupMembership) error
	ListMemberships(ctx context.Context, groupID uint, userID *uint, limit, offset int) ([]models.GroupMembership, int64, error)
	ActiveMemberIDs(ctx context.Context, groupID uint) ([]uint, error)

	ListMessages(ctx context.Context, groupID uint, senderID *uint, limit, offset int) ([]models.Message, int64, error)

	Deactivate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetActiveByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) CreateMembership(ctx context.Context, member *models.GroupMembership) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *groupRepository) GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error) {
	var member models.GroupMembership
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *groupRepository) SaveMembership(ctx context.Context, member *models.GroupMembership) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *groupRepository) ListMemberships(ctx context.Context, groupID uint, userID *uint, limit, offset int) ([]models.GroupMembership, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.GroupMembership{}).
		Where("group_id = ? AND active = ?", groupID, true)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []models.GroupMembership
	err := query.Order("user_id").Limit(limit).Offset(offset).Find(&members).Error
	return members, total, err
}

func (r *groupRepository) ActiveMemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.GroupMembership{}).
		Where("group_id = ? AND active = ?", groupID, true).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *groupRepository) ListMessages(ctx context.Context, groupID uint, senderID *uint, limit, offset int) ([]models.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("group_id = ? AND active = ?", groupID, true)
	if senderID != nil {
		query = query.Where("sender_id = ?", *senderID)
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

// Deactivate soft-deletes the group together with its messages and
// memberships so readers never observe a half-deactivated group.
func (r *groupRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Group{}).
			Where("id = ? AND active = ?", id, true).
			Update("active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&models.GroupMembership{}).
			Where("group_id = ?", id).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Message{}).
			Where("group_id = ?", id).
			Update("active", false).Error
	})
}

// Delete removes the group and cascades to messages, payload rows,
// statuses, reactions and memberships in one transaction.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		messageIDs := tx.Model(&models.Message{}).Select("id").Where("group_id = ?", id)

		for _, payload := range []any{
			&models.TextMessage{}, &models.FileMessage{}, &models.URLMessage{},
			&models.MessageStatus{}, &models.MessageReaction{},
		} {
			if err := tx.Where("message_id IN (?)", messageIDs).Delete(payload).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
