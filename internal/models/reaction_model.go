package models

// MessageReaction is one (message, user, value) reaction fact.
// The composite unique index makes the triple a set, not a multiset.
type MessageReaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Value     string `gorm:"size:32;not null;uniqueIndex:idx_message_user_value" json:"value"`
	MessageID int64  `gorm:"not null;uniqueIndex:idx_message_user_value" json:"message_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_message_user_value" json:"user_id"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}
