package model

import "time"

// Message statuses
const (
	MessageNew      = "new"
	MessageRead     = "read"
	MessageReplied  = "replied"
	MessageArchived = "archived"
)

// MessageStatuses every valid message status
var MessageStatuses = []string{MessageNew, MessageRead, MessageReplied, MessageArchived}

// Message contact form submission — contact_messages
type Message struct {
	ID        uint       `gorm:"primaryKey"                              json:"id"`
	Name      string     `gorm:"type:varchar(100);not null"              json:"name"`
	Email     string     `gorm:"type:varchar(254);not null"              json:"email"`
	Message   string     `gorm:"type:text;not null"                      json:"message"`
	Status    string     `gorm:"type:varchar(20);not null;default:'new'" json:"status"` // new | read | replied | archived
	IPAddress *string    `gorm:"type:varchar(45)"                        json:"ip_address"`
	UserAgent *string    `gorm:"type:text"                               json:"user_agent"`
	ReadAt    *time.Time `json:"read_at"`
	RepliedAt *time.Time `json:"replied_at"`
	BaseModel
}

// TableName table name
func (Message) TableName() string { return "contact_messages" }

func (m *Message) IsNew() bool { return m.Status == MessageNew }

// IsRead true for read and replied messages
func (m *Message) IsRead() bool { return m.Status == MessageRead || m.Status == MessageReplied }

func (m *Message) IsReplied() bool { return m.Status == MessageReplied }

// ── transitions ──

// MarkAsRead only moves new messages; returns false (and changes nothing)
// for any other status.
func (m *Message) MarkAsRead(now time.Time) bool {
	if m.Status != MessageNew {
		return false
	}
	m.Status = MessageRead
	m.ReadAt = &now
	return true
}

// MarkAsReplied always sets replied and re-stamps RepliedAt
func (m *Message) MarkAsReplied(now time.Time) {
	m.Status = MessageReplied
	m.RepliedAt = &now
}

// Archive sets archived without touching any timestamp
func (m *Message) Archive() {
	m.Status = MessageArchived
}

// IsMessageStatus reports whether s is a known message status
func IsMessageStatus(s string) bool {
	for _, st := range MessageStatuses {
		if s == st {
			return true
		}
	}
	return false
}
