package dto

import (
	"time"

	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
)

// ── contact DTO ──

// CreateMessageRequest public contact form
type CreateMessageRequest struct {
	Name    string `json:"name"    binding:"required,max=100,trimmedmin=2"`
	Email   string `json:"email"   binding:"required,email,max=254"`
	Message string `json:"message" binding:"required,trimmedmin=10"`
}

// UpdateMessageRequest staff status update
type UpdateMessageRequest struct {
	Status string `json:"status" binding:"required,oneof=new read replied archived"`
}

// MessageListRequest list filters
type MessageListRequest struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=new read replied archived"`
}

// ContactMessageResponse full record with derived flags
type ContactMessageResponse struct {
	*model.Message
	IsNew     bool `json:"is_new"`
	IsRead    bool `json:"is_read"`
	IsReplied bool `json:"is_replied"`
}

// NewContactMessageResponse wraps m with its derived flags
func NewContactMessageResponse(m *model.Message) *ContactMessageResponse {
	return &ContactMessageResponse{
		Message:   m,
		IsNew:     m.IsNew(),
		IsRead:    m.IsRead(),
		IsReplied: m.IsReplied(),
	}
}

// MessageListItem list projection
type MessageListItem struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	IsNew     bool      `json:"is_new"`
	IsRead    bool      `json:"is_read"`
	IsReplied bool      `json:"is_replied"`
}

// NewMessageListItem list row
func NewMessageListItem(m *model.Message) MessageListItem {
	return MessageListItem{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		IsNew:     m.IsNew(),
		IsRead:    m.IsRead(),
		IsReplied: m.IsReplied(),
	}
}

// MessageStatistics contact dashboard figures
type MessageStatistics struct {
	TotalMessages    int64        `json:"total_messages"`
	NewMessages      int64        `json:"new_messages"`
	ReadMessages     int64        `json:"read_messages"`
	RepliedMessages  int64        `json:"replied_messages"`
	ArchivedMessages int64        `json:"archived_messages"`
	RecentMessages   int64        `json:"recent_messages"`
	StatusStatistics []CountBy    `json:"status_statistics"`
	DailyStatistics  []DailyCount `json:"daily_statistics"`
}
