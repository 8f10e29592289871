package models

import (
	"fmt"
	"time"
)

// GroupType discriminates conversations: personal (a friend pair),
// multiple (group chat) and channel (broadcast).
type GroupType string

const (
	GroupPersonal GroupType = "personal"
	GroupMultiple GroupType = "multiple"
	GroupChannel  GroupType = "channel"
)

// ValidGroupType reports whether t is one of the known group types.
func ValidGroupType(t GroupType) bool {
	switch t {
	case GroupPersonal, GroupMultiple, GroupChannel:
		return true
	}
	return false
}

// Group 会话模型
// Name is NULL for personal groups; PairKey is the normalized membership
// fingerprint of a personal group and carries the unique constraint that
// serializes concurrent friend-pair creation across server instances.
type Group struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    *string   `gorm:"uniqueIndex;size:128" json:"name"`
	Type    GroupType `gorm:"type:varchar(16);not null;index" json:"type"`
	PairKey *string   `gorm:"uniqueIndex;size:64" json:"-"`
	Active  bool      `gorm:"not null;default:true" json:"active"`

	Memberships []GroupMembership `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Messages    []Message         `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// PairKey builds the normalized fingerprint of an unordered friend pair.
// Both orderings of the same pair produce the same key.
func PairKey(u1, u2 uint) string {
	if u1 > u2 {
		u1, u2 = u2, u1
	}
	return fmt.Sprintf("p:%d:%d", u1, u2)
}
