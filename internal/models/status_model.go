package models

import "time"

// StatusValue is the delivery state of a message for one receiver.
type StatusValue string

const (
	StatusNew  StatusValue = "new"
	StatusRead StatusValue = "read"
)

// MessageStatus tracks per-receiver delivery state. One row per
// (message, receiver) pair, created at message fan-out time; the only
// transition is new to read.
type MessageStatus struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Value      StatusValue `gorm:"type:varchar(8);not null;default:new" json:"value"`
	MessageID  int64       `gorm:"not null;uniqueIndex:idx_message_receiver" json:"message_id"`
	ReceiverID uint        `gorm:"not null;uniqueIndex:idx_message_receiver" json:"receiver_id"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (MessageStatus) TableName() string {
	return "message_statuses"
}
