package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
)

// ── admissions errors ──

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrEmptySelection      = errors.New("no records selected")
)

// recentWindow look-back of the "recent" dashboard counters
const recentWindow = 30 * 24 * time.Hour

// ApplicationService admissions workflow
type ApplicationService interface {
	Create(ctx context.Context, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ApplicationResponse, error)
	List(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationListItem, int64, error)
	ListPublic(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationPublicItem, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateApplicationRequest, actorID uint) (*dto.ApplicationResponse, error)
	Delete(ctx context.Context, id uint) error

	Approve(ctx context.Context, id, actorID uint) (*dto.ApplicationResponse, error)
	Reject(ctx context.Context, id, actorID uint) (*dto.ApplicationResponse, error)
	ApproveAll(ctx context.Context, ids []uint) (int64, error)
	RejectAll(ctx context.Context, ids []uint) (int64, error)
	MarkReviewedAll(ctx context.Context, ids []uint) (int64, error)

	Pending(ctx context.Context) ([]dto.ApplicationResponse, error)
	Statistics(ctx context.Context) (*dto.ApplicationStatistics, error)
}

type applicationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewApplicationService creates an ApplicationService
func NewApplicationService(repo *repository.Repository, logger *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *applicationService) Create(ctx context.Context, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	now := time.Now().UTC()
	app := req.ToModel()
	app.DeriveAge(now)

	if err := ValidateApplication(app, now); err != nil {
		return nil, err
	}

	app.Status = model.ApplicationPending
	app.ApplicationDate = now
	app.ReviewedDate = nil
	app.ReviewedByID = nil

	if err := s.repo.Application.Create(ctx, app); err != nil {
		s.logger.Error("create application failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("application received",
		zap.Uint("id", app.ID),
		zap.String("class", app.ClassBeforeAdmission),
	)
	return dto.NewApplicationResponse(app), nil
}

// ValidateApplication checks the write-boundary rules of a new application.
// Age must already be derived.
func ValidateApplication(app *model.Application, now time.Time) error {
	v := pkgerrors.NewValidationError()

	if app.DateOfBirth.IsZero() {
		v.Add("date_of_birth", "This field is required.")
	} else if app.DateOfBirth.AfterDay(now) {
		v.Add("date_of_birth", "Date of birth cannot be in the future.")
	}

	if app.Age < model.MinApplicantAge || app.Age > model.MaxApplicantAge {
		v.Add("age", "Age must be between 1 and 25 years.")
	}

	if isBlank(app.FatherContact) && isBlank(app.MotherContact) {
		v.Add(pkgerrors.NonFieldErrors, "At least one parent contact number must be provided.")
	}

	if !isBlank(app.FatherEmail) && !strings.Contains(*app.FatherEmail, "@") {
		v.Add("father_email", "Father's email must be a valid email address.")
	}
	if !isBlank(app.MotherEmail) && !strings.Contains(*app.MotherEmail, "@") {
		v.Add("mother_email", "Mother's email must be a valid email address.")
	}

	return v.OrNil()
}

// isBlank reports a missing or whitespace-only value
func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// ────────────────────── Read ──────────────────────

func (s *applicationService) GetByID(ctx context.Context, id uint) (*dto.ApplicationResponse, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewApplicationResponse(app), nil
}

func (s *applicationService) get(ctx context.Context, id uint) (*model.Application, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("get application failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (s *applicationService) List(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationListItem, int64, error) {
	filter := &repository.ApplicationFilter{
		Gender:               req.Gender,
		ClassBeforeAdmission: req.ClassBeforeAdmission,
	}
	if req.Status != "" {
		filter.Statuses = []string{req.Status}
	}

	apps, total, err := s.repo.Application.List(ctx, filter, listOptions(&req.ListQuery))
	if err != nil {
		s.logger.Error("list applications failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ApplicationListItem, 0, len(apps))
	for i := range apps {
		result = append(result, dto.NewApplicationListItem(&apps[i]))
	}
	return result, total, nil
}

// ListPublic decided applications only (accepted / rejected), in the
// reduced public projection. A status filter outside that set yields nothing.
func (s *applicationService) ListPublic(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationPublicItem, int64, error) {
	visible := []string{model.ApplicationAccepted, model.ApplicationRejected}
	if req.Status != "" {
		if req.Status != model.ApplicationAccepted && req.Status != model.ApplicationRejected {
			return []dto.ApplicationPublicItem{}, 0, nil
		}
		visible = []string{req.Status}
	}
	filter := &repository.ApplicationFilter{
		Statuses:             visible,
		Gender:               req.Gender,
		ClassBeforeAdmission: req.ClassBeforeAdmission,
	}

	apps, total, err := s.repo.Application.List(ctx, filter, listOptions(&req.ListQuery))
	if err != nil {
		s.logger.Error("list public applications failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ApplicationPublicItem, 0, len(apps))
	for i := range apps {
		result = append(result, dto.NewApplicationPublicItem(&apps[i]))
	}
	return result, total, nil
}

func (s *applicationService) Pending(ctx context.Context) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListByStatus(ctx, model.ApplicationPending)
	if err != nil {
		s.logger.Error("list pending applications failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		result = append(result, *dto.NewApplicationResponse(&apps[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

// Update applies notes and, when the status changes, stamps the reviewer
func (s *applicationService) Update(ctx context.Context, id uint, req *dto.UpdateApplicationRequest, actorID uint) (*dto.ApplicationResponse, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !model.IsApplicationStatus(*req.Status) {
			v := pkgerrors.NewValidationError()
			v.Add("status", "\""+*req.Status+"\" is not a valid choice.")
			return nil, v
		}
		if *req.Status != app.Status {
			app.Review(*req.Status, actorID, time.Now().UTC())
		}
	}
	if req.Notes != nil {
		app.Notes = req.Notes
	}

	if err := s.repo.Application.Update(ctx, app); err != nil {
		s.logger.Error("update application failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return dto.NewApplicationResponse(app), nil
}

func (s *applicationService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Application.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		s.logger.Error("delete application failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Transitions ──────────────────────

func (s *applicationService) Approve(ctx context.Context, id, actorID uint) (*dto.ApplicationResponse, error) {
	return s.review(ctx, id, actorID, model.ApplicationAccepted)
}

func (s *applicationService) Reject(ctx context.Context, id, actorID uint) (*dto.ApplicationResponse, error) {
	return s.review(ctx, id, actorID, model.ApplicationRejected)
}

// review re-stamps on every call, including repeats of the current status
func (s *applicationService) review(ctx context.Context, id, actorID uint, status string) (*dto.ApplicationResponse, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	app.Review(status, actorID, time.Now().UTC())
	if err := s.repo.Application.Update(ctx, app); err != nil {
		s.logger.Error("review application failed",
			zap.Uint("id", id),
			zap.String("status", status),
			zap.Error(err),
		)
		return nil, err
	}
	s.logger.Info("application reviewed",
		zap.Uint("id", id),
		zap.String("status", status),
		zap.Uint("reviewer", actorID),
	)
	return dto.NewApplicationResponse(app), nil
}

func (s *applicationService) ApproveAll(ctx context.Context, ids []uint) (int64, error) {
	return s.bulkStatus(ctx, ids, model.ApplicationAccepted)
}

func (s *applicationService) RejectAll(ctx context.Context, ids []uint) (int64, error) {
	return s.bulkStatus(ctx, ids, model.ApplicationRejected)
}

func (s *applicationService) MarkReviewedAll(ctx context.Context, ids []uint) (int64, error) {
	return s.bulkStatus(ctx, ids, model.ApplicationReviewed)
}

// bulkStatus one batch UPDATE of the status column. Unlike the single-record
// path it does not stamp reviewed_date or reviewed_by.
func (s *applicationService) bulkStatus(ctx context.Context, ids []uint, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}
	n, err := s.repo.Application.BulkUpdateStatus(ctx, ids, status)
	if err != nil {
		s.logger.Error("bulk application update failed",
			zap.String("status", status),
			zap.Int("selected", len(ids)),
			zap.Error(err),
		)
		return 0, err
	}
	s.logger.Info("bulk application update",
		zap.String("status", status),
		zap.Int64("updated", n),
	)
	return n, nil
}

// ────────────────────── Statistics ──────────────────────

func (s *applicationService) Statistics(ctx context.Context) (*dto.ApplicationStatistics, error) {
	stats := &dto.ApplicationStatistics{}
	var err error

	counts := []struct {
		status string
		dst    *int64
	}{
		{"", &stats.TotalApplications},
		{model.ApplicationPending, &stats.PendingApplications},
		{model.ApplicationAccepted, &stats.AcceptedApplications},
		{model.ApplicationRejected, &stats.RejectedApplications},
	}
	for _, c := range counts {
		if *c.dst, err = s.repo.Application.Count(ctx, c.status); err != nil {
			return nil, s.statsFailed(err)
		}
	}

	if stats.RecentApplications, err = s.repo.Application.CountSince(ctx, time.Now().UTC().Add(-recentWindow)); err != nil {
		return nil, s.statsFailed(err)
	}

	byGender, err := s.repo.Application.CountByGender(ctx)
	if err != nil {
		return nil, s.statsFailed(err)
	}
	byClass, err := s.repo.Application.CountByClass(ctx)
	if err != nil {
		return nil, s.statsFailed(err)
	}
	stats.GenderStatistics = toCountBy(byGender)
	stats.ClassStatistics = toCountBy(byClass)
	return stats, nil
}

func (s *applicationService) statsFailed(err error) error {
	s.logger.Error("application statistics failed", zap.Error(err))
	return err
}

// ── helpers ──

func listOptions(q *dto.ListQuery) repository.ListOptions {
	return repository.ListOptions{
		Offset:   q.GetOffset(),
		Limit:    q.GetPageSize(),
		Search:   q.Search,
		Ordering: q.Ordering,
	}
}

func toCountBy(rows []repository.GroupCount) []dto.CountBy {
	out := make([]dto.CountBy, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CountBy{Key: r.Key, Count: r.Count})
	}
	return out
}
