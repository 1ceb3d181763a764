package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
)

var ErrMessageNotFound = errors.New("message not found")

// Contact form bounds, measured after trimming
const (
	MinMessageNameLength = 2
	MinMessageBodyLength = 10
)

// dailyWindow look-back of the per-day histogram
const dailyWindow = 7 * 24 * time.Hour

// ClientInfo request metadata captured with a contact message
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// MessageService contact message workflow
type MessageService interface {
	Create(ctx context.Context, req *dto.CreateMessageRequest, client ClientInfo) (*dto.ContactMessageResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ContactMessageResponse, error)
	List(ctx context.Context, req *dto.MessageListRequest) ([]dto.MessageListItem, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateMessageRequest) (*dto.ContactMessageResponse, error)
	Delete(ctx context.Context, id uint) error

	MarkAsRead(ctx context.Context, id uint) (*dto.ContactMessageResponse, error)
	MarkAsReplied(ctx context.Context, id uint) (*dto.ContactMessageResponse, error)
	Archive(ctx context.Context, id uint) (*dto.ContactMessageResponse, error)
	MarkAllRead(ctx context.Context, ids []uint) (int64, error)
	MarkAllReplied(ctx context.Context, ids []uint) (int64, error)
	ArchiveAll(ctx context.Context, ids []uint) (int64, error)

	New(ctx context.Context) ([]dto.ContactMessageResponse, error)
	Statistics(ctx context.Context) (*dto.MessageStatistics, error)
}

type messageService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMessageService creates a MessageService
func NewMessageService(repo *repository.Repository, logger *zap.Logger) MessageService {
	return &messageService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *messageService) Create(ctx context.Context, req *dto.CreateMessageRequest, client ClientInfo) (*dto.ContactMessageResponse, error) {
	msg := &model.Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
		Status:  model.MessageNew,
	}
	if err := ValidateMessage(msg); err != nil {
		return nil, err
	}
	if client.IPAddress != "" {
		ip := client.IPAddress
		msg.IPAddress = &ip
	}
	if client.UserAgent != "" {
		ua := client.UserAgent
		msg.UserAgent = &ua
	}

	if err := s.repo.Message.Create(ctx, msg); err != nil {
		s.logger.Error("create message failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("contact message received", zap.Uint("id", msg.ID))
	return dto.NewContactMessageResponse(msg), nil
}

// ValidateMessage expects already trimmed fields
func ValidateMessage(msg *model.Message) error {
	v := pkgerrors.NewValidationError()
	if utf8.RuneCountInString(msg.Name) < MinMessageNameLength {
		v.Add("name", "Name must be at least 2 characters long.")
	}
	if msg.Email == "" {
		v.Add("email", "This field is required.")
	}
	if utf8.RuneCountInString(msg.Message) < MinMessageBodyLength {
		v.Add("message", "Message must be at least 10 characters long.")
	}
	return v.OrNil()
}

// ────────────────────── Read ──────────────────────

func (s *messageService) GetByID(ctx context.Context, id uint) (*dto.ContactMessageResponse, error) {
	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewContactMessageResponse(msg), nil
}

func (s *messageService) get(ctx context.Context, id uint) (*model.Message, error) {
	msg, err := s.repo.Message.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		s.logger.Error("get message failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return msg, nil
}

func (s *messageService) List(ctx context.Context, req *dto.MessageListRequest) ([]dto.MessageListItem, int64, error) {
	msgs, total, err := s.repo.Message.List(ctx, req.Status, listOptions(&req.ListQuery))
	if err != nil {
		s.logger.Error("list messages failed", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.MessageListItem, 0, len(msgs))
	for i := range msgs {
		result = append(result, dto.NewMessageListItem(&msgs[i]))
	}
	return result, total, nil
}

func (s *messageService) New(ctx context.Context) ([]dto.ContactMessageResponse, error) {
	msgs, err := s.repo.Message.ListByStatus(ctx, model.MessageNew)
	if err != nil {
		s.logger.Error("list new messages failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ContactMessageResponse, 0, len(msgs))
	for i := range msgs {
		result = append(result, *dto.NewContactMessageResponse(&msgs[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

// Update routes known target statuses through their transitions. "read" only
// stamps when the message is new; any other combination is a plain status set.
func (s *messageService) Update(ctx context.Context, id uint, req *dto.UpdateMessageRequest) (*dto.ContactMessageResponse, error) {
	if !model.IsMessageStatus(req.Status) {
		v := pkgerrors.NewValidationError()
		v.Add("status", "\""+req.Status+"\" is not a valid choice.")
		return nil, v
	}

	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch {
	case req.Status == model.MessageRead && msg.IsNew():
		msg.MarkAsRead(now)
	case req.Status == model.MessageReplied:
		msg.MarkAsReplied(now)
	case req.Status == model.MessageArchived:
		msg.Archive()
	default:
		msg.Status = req.Status
	}

	if err := s.save(ctx, msg); err != nil {
		return nil, err
	}
	return dto.NewContactMessageResponse(msg), nil
}

func (s *messageService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Message.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		s.logger.Error("delete message failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *messageService) save(ctx context.Context, msg *model.Message) error {
	if err := s.repo.Message.Update(ctx, msg); err != nil {
		s.logger.Error("save message failed", zap.Uint("id", msg.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Transitions ──────────────────────

// MarkAsRead writes only when the message was new
func (s *messageService) MarkAsRead(ctx context.Context, id uint) (*dto.ContactMessageResponse, error) {
	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.MarkAsRead(time.Now().UTC()) {
		if err := s.save(ctx, msg); err != nil {
			return nil, err
		}
	}
	return dto.NewContactMessageResponse(msg), nil
}

func (s *messageService) MarkAsReplied(ctx context.Context, id uint) (*dto.ContactMessageResponse, error) {
	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.MarkAsReplied(time.Now().UTC())
	if err := s.save(ctx, msg); err != nil {
		return nil, err
	}
	return dto.NewContactMessageResponse(msg), nil
}

func (s *messageService) Archive(ctx context.Context, id uint) (*dto.ContactMessageResponse, error) {
	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.Archive()
	if err := s.save(ctx, msg); err != nil {
		return nil, err
	}
	return dto.NewContactMessageResponse(msg), nil
}

// MarkAllRead counts only the messages that were new
func (s *messageService) MarkAllRead(ctx context.Context, ids []uint) (int64, error) {
	now := time.Now().UTC()
	return s.bulk(ctx, ids, "mark_as_read", func(m *model.Message) bool {
		return m.MarkAsRead(now)
	})
}

func (s *messageService) MarkAllReplied(ctx context.Context, ids []uint) (int64, error) {
	now := time.Now().UTC()
	return s.bulk(ctx, ids, "mark_as_replied", func(m *model.Message) bool {
		m.MarkAsReplied(now)
		return true
	})
}

func (s *messageService) ArchiveAll(ctx context.Context, ids []uint) (int64, error) {
	return s.bulk(ctx, ids, "archive", func(m *model.Message) bool {
		m.Archive()
		return true
	})
}

// bulk applies the per-record transition to every selected message in one
// transaction and saves those it changed
func (s *messageService) bulk(ctx context.Context, ids []uint, action string, apply func(*model.Message) bool) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}

	var updated int64
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		msgs, err := tx.Message.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		changed := make([]model.Message, 0, len(msgs))
		for i := range msgs {
			if apply(&msgs[i]) {
				changed = append(changed, msgs[i])
			}
		}
		if err := tx.Message.SaveAll(ctx, changed); err != nil {
			return err
		}
		updated = int64(len(changed))
		return nil
	})
	if err != nil {
		s.logger.Error("bulk message update failed",
			zap.String("action", action),
			zap.Int("selected", len(ids)),
			zap.Error(err),
		)
		return 0, err
	}
	s.logger.Info("bulk message update", zap.String("action", action), zap.Int64("updated", updated))
	return updated, nil
}

// ────────────────────── Statistics ──────────────────────

func (s *messageService) Statistics(ctx context.Context) (*dto.MessageStatistics, error) {
	stats := &dto.MessageStatistics{}
	var err error

	counts := []struct {
		status string
		dst    *int64
	}{
		{"", &stats.TotalMessages},
		{model.MessageNew, &stats.NewMessages},
		{model.MessageRead, &stats.ReadMessages},
		{model.MessageReplied, &stats.RepliedMessages},
		{model.MessageArchived, &stats.ArchivedMessages},
	}
	for _, c := range counts {
		if *c.dst, err = s.repo.Message.Count(ctx, c.status); err != nil {
			return nil, s.statsFailed(err)
		}
	}

	now := time.Now().UTC()
	if stats.RecentMessages, err = s.repo.Message.CountSince(ctx, now.Add(-recentWindow)); err != nil {
		return nil, s.statsFailed(err)
	}

	byStatus, err := s.repo.Message.CountByStatus(ctx)
	if err != nil {
		return nil, s.statsFailed(err)
	}
	stats.StatusStatistics = toCountBy(byStatus)

	days, err := s.repo.Message.DailyCountsSince(ctx, now.Add(-dailyWindow))
	if err != nil {
		return nil, s.statsFailed(err)
	}
	stats.DailyStatistics = make([]dto.DailyCount, 0, len(days))
	for _, d := range days {
		stats.DailyStatistics = append(stats.DailyStatistics, dto.DailyCount{Day: d.Day, Count: d.Count})
	}
	return stats, nil
}

func (s *messageService) statsFailed(err error) error {
	s.logger.Error("message statistics failed", zap.Error(err))
	return err
}
