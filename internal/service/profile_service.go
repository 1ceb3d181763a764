package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService staff-side profile management. Profiles are only created
// by the identity-create hook.
type ProfileService interface {
	GetByID(ctx context.Context, id uint) (*dto.ProfileResponse, error)
	List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error)
	Update(ctx context.Context, id uint, in *dto.ProfileInput) (*dto.ProfileResponse, error)
	Delete(ctx context.Context, id uint) error
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) GetByID(ctx context.Context, id uint) (*dto.ProfileResponse, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProfileResponse(p), nil
}

func (s *profileService) get(ctx context.Context, id uint) (*model.Profile, error) {
	p, err := s.repo.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("get profile failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *profileService) List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error) {
	profiles, total, err := s.repo.Profile.List(ctx, req.Role, listOptions(&req.ListQuery))
	if err != nil {
		s.logger.Error("list profiles failed", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, *dto.NewProfileResponse(&profiles[i]))
	}
	return result, total, nil
}

func (s *profileService) Update(ctx context.Context, id uint, in *dto.ProfileInput) (*dto.ProfileResponse, error) {
	v := pkgerrors.NewValidationError()
	validateProfileInput(in, "", v)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(p)
	if err := s.repo.Profile.Update(ctx, p); err != nil {
		s.logger.Error("update profile failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return dto.NewProfileResponse(p), nil
}

func (s *profileService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Profile.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		s.logger.Error("delete profile failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}
