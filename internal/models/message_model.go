package models

import "time"

// MessageVariant is the discriminator of a message's payload shape.
type MessageVariant string

const (
	VariantText MessageVariant = "text"
	VariantFile MessageVariant = "file"
	VariantURL  MessageVariant = "url"
)

// ValidVariant reports whether v is one of the known message variants.
func ValidVariant(v MessageVariant) bool {
	switch v {
	case VariantText, VariantFile, VariantURL:
		return true
	}
	return false
}

// DefaultTextContentType is used when a text message omits its content type.
const DefaultTextContentType = "text/plain"

// Message 消息模型
// Exactly one of Text/File/URL is set, selected by Discriminator. The
// variant is fixed at creation. Ids are snowflake-generated, never
// database-assigned.
type Message struct {
	ID       int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SenderID uint  `gorm:"not null;index" json:"sender_id"`
	GroupID  uint  `gorm:"not null;index" json:"group_id"`

	Active        bool           `gorm:"not null;default:true" json:"active"`
	Draft         bool           `gorm:"not null;default:false" json:"draft"`
	Discriminator MessageVariant `gorm:"type:varchar(8);not null" json:"discriminator"`

	Text *TextMessage `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"text,omitempty"`
	File *FileMessage `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"file,omitempty"`
	URL  *URLMessage  `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"url,omitempty"`

	Statuses  []MessageStatus   `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	Reactions []MessageReaction `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Payload returns the content type and value of the active variant.
func (m *Message) Payload() (contentType, value string) {
	switch m.Discriminator {
	case VariantText:
		if m.Text != nil {
			return m.Text.ContentType, m.Text.Value
		}
	case VariantFile:
		if m.File != nil {
			return m.File.ContentType, m.File.Value
		}
	case VariantURL:
		if m.URL != nil {
			return m.URL.ContentType, m.URL.Value
		}
	}
	return "", ""
}

// TextMessage is the payload row of a text-variant message.
type TextMessage struct {
	MessageID   int64  `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ContentType string `gorm:"size:128;not null;default:text/plain" json:"content_type"`
	Value       string `gorm:"type:text;not null" json:"value"`
}

func (TextMessage) TableName() string {
	return "text_messages"
}

// FileMessage is the payload row of a file-variant message; Value is a URL.
type FileMessage struct {
	MessageID   int64  `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ContentType string `gorm:"size:128;not null" json:"content_type"`
	Value       string `gorm:"size:2048;not null" json:"value"`
}

func (FileMessage) TableName() string {
	return "file_messages"
}

// URLMessage is the payload row of a url-variant message; Value is a URL.
type URLMessage struct {
	MessageID   int64  `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ContentType string `gorm:"size:128;not null" json:"content_type"`
	Value       string `gorm:"size:2048;not null" json:"value"`
}

func (URLMessage) TableName() string {
	return "url_messages"
}
