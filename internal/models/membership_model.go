package models

import "time"

// GroupMembership 群组成员模型
// Composite primary key (group_id, user_id); membership is deactivated,
// never deleted, except when the whole group is deleted.
type GroupMembership struct {
	GroupID uint `gorm:"primaryKey" json:"group_id"`
	UserID  uint `gorm:"primaryKey" json:"user_id"`

	Active          bool `gorm:"not null;default:true" json:"active"`
	NotifyByMessage bool `gorm:"not null;default:true" json:"notify_by_message"`
	NotifyByEmail   bool `gorm:"not null;default:false" json:"notify_by_email"`

	CreatedAt time.Time `json:"created_at"`
}

func (GroupMembership) TableName() string {
	return "groups_memberships"
}
