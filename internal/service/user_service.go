package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/22146025/lord-s-heart-educational-complex/internal/access"
	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
)

// ── identity errors ──

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserSelfDelete = errors.New("cannot delete yourself")
)

// MinPasswordLength shortest accepted password
const MinPasswordLength = 8

// UserService identity management
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	CreateSuperuser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id uint, caller access.Caller) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, caller access.Caller) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uint, callerID uint) error

	Me(ctx context.Context, callerID uint) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, callerID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, callerID uint, req *dto.ChangePasswordRequest) error
	SetPassword(ctx context.Context, username, password string) error

	Statistics(ctx context.Context) (*dto.UserStatistics, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return s.create(ctx, req, false)
}

// CreateSuperuser staff + superuser identity, used by the admin CLI
func (s *userService) CreateSuperuser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return s.create(ctx, req, true)
}

func (s *userService) create(ctx context.Context, req *dto.CreateUserRequest, superuser bool) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)

	v := pkgerrors.NewValidationError()
	if username == "" {
		v.Add("username", "This field is required.")
	} else if exists, err := s.repo.User.ExistsByUsername(ctx, username); err != nil {
		s.logger.Error("check username failed", zap.Error(err))
		return nil, err
	} else if exists {
		v.Add("username", "A user with that username already exists.")
	}
	for _, msg := range ValidatePassword(req.Password) {
		v.Add("password", msg)
	}
	if req.Password != req.PasswordConfirm {
		v.Add(pkgerrors.NonFieldErrors, "Passwords don't match.")
	}
	validateProfileInput(req.Profile, "profile.", v)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		IsStaff:      superuser,
		IsSuperuser:  superuser,
		IsActive:     true,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		return onUserCreated(ctx, tx, user, req.Profile)
	})
	if err != nil {
		s.logger.Error("create user failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created",
		zap.Uint("id", user.ID),
		zap.String("username", user.Username),
		zap.Bool("superuser", superuser),
	)
	return dto.NewUserResponse(user), nil
}

// onUserCreated post-create hook: every new identity gets exactly one
// profile, with the optional payload applied on top of the defaults
func onUserCreated(ctx context.Context, tx *repository.Repository, user *model.User, in *dto.ProfileInput) error {
	profile := model.NewDefaultProfile(user.ID)
	in.Apply(profile)
	if err := tx.Profile.Create(ctx, profile); err != nil {
		return err
	}
	user.Profile = profile
	return nil
}

// validateProfileInput records a message under prefix+"role" for an unknown role
func validateProfileInput(in *dto.ProfileInput, prefix string, v *pkgerrors.ValidationError) {
	if in != nil && in.Role != nil && !model.IsRole(*in.Role) {
		v.Add(prefix+"role", "\""+*in.Role+"\" is not a valid choice.")
	}
}

// ValidatePassword messages for every rule the password breaks
func ValidatePassword(password string) []string {
	var msgs []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		msgs = append(msgs, "This password is too short. It must contain at least 8 characters.")
	}
	if password != "" && isAllDigits(password) {
		msgs = append(msgs, "This password is entirely numeric.")
	}
	return msgs
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ────────────────────── Read ──────────────────────

// GetByID non-staff callers only see themselves; anyone else reads as missing
func (s *userService) GetByID(ctx context.Context, id uint, caller access.Caller) (*dto.UserResponse, error) {
	if !access.CanAccessUser(caller, id) {
		return nil, ErrUserNotFound
	}
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) Me(ctx context.Context, callerID uint) (*dto.UserResponse, error) {
	user, err := s.get(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := &repository.UserFilter{IsActive: req.IsActive, IsStaff: req.IsStaff}
	users, total, err := s.repo.User.List(ctx, filter, listOptions(&req.ListQuery))
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *dto.NewUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *userService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, caller access.Caller) (*dto.UserResponse, error) {
	if !access.CanAccessUser(caller, id) {
		return nil, ErrUserNotFound
	}
	return s.update(ctx, id, req)
}

func (s *userService) UpdateMe(ctx context.Context, callerID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return s.update(ctx, callerID, req)
}

// update saves the identity, then re-saves its existing profile. A missing
// profile is never recreated here.
func (s *userService) update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	v := pkgerrors.NewValidationError()
	validateProfileInput(req.Profile, "profile.", v)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if user.Profile != nil {
		req.Profile.Apply(user.Profile)
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if user.Profile != nil {
			return tx.Profile.Update(ctx, user.Profile)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("update user failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id uint, callerID uint) error {
	if id == callerID {
		return ErrUserSelfDelete
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("delete user failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Passwords ──────────────────────

func (s *userService) ChangePassword(ctx context.Context, callerID uint, req *dto.ChangePasswordRequest) error {
	user, err := s.get(ctx, callerID)
	if err != nil {
		return err
	}

	v := pkgerrors.NewValidationError()
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		v.Add("old_password", "Old password is incorrect.")
	}
	for _, msg := range ValidatePassword(req.NewPassword) {
		v.Add("new_password", msg)
	}
	if req.NewPassword != req.NewPasswordConfirm {
		v.Add(pkgerrors.NonFieldErrors, "New passwords don't match.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	return s.storePassword(ctx, user.ID, req.NewPassword)
}

// SetPassword administrative reset by username, password rules still apply
func (s *userService) SetPassword(ctx context.Context, username, password string) error {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("username", username), zap.Error(err))
		return err
	}

	v := pkgerrors.NewValidationError()
	for _, msg := range ValidatePassword(password) {
		v.Add("password", msg)
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	return s.storePassword(ctx, user.ID, password)
}

func (s *userService) storePassword(ctx context.Context, id uint, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	if err := s.repo.User.UpdatePassword(ctx, id, string(hash)); err != nil {
		s.logger.Error("store password failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("password changed", zap.Uint("id", id))
	return nil
}

// ────────────────────── Statistics ──────────────────────

func (s *userService) Statistics(ctx context.Context) (*dto.UserStatistics, error) {
	yes := true
	stats := &dto.UserStatistics{}
	var err error

	if stats.TotalUsers, err = s.repo.User.Count(ctx, nil); err != nil {
		return nil, s.statsFailed(err)
	}
	if stats.ActiveUsers, err = s.repo.User.Count(ctx, &repository.UserFilter{IsActive: &yes}); err != nil {
		return nil, s.statsFailed(err)
	}
	if stats.StaffUsers, err = s.repo.User.Count(ctx, &repository.UserFilter{IsStaff: &yes}); err != nil {
		return nil, s.statsFailed(err)
	}
	if stats.RecentUsers, err = s.repo.User.CountJoinedSince(ctx, time.Now().UTC().Add(-recentWindow)); err != nil {
		return nil, s.statsFailed(err)
	}

	byRole, err := s.repo.Profile.CountByRole(ctx)
	if err != nil {
		return nil, s.statsFailed(err)
	}
	stats.RoleStatistics = toCountBy(byRole)
	return stats, nil
}

func (s *userService) statsFailed(err error) error {
	s.logger.Error("user statistics failed", zap.Error(err))
	return err
}
