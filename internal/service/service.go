package service

import (
	"go.uber.org/zap"

	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/jwt"
)

// Service aggregate of every service
type Service struct {
	Auth        AuthService
	Application ApplicationService
	Message     MessageService
	User        UserService
	Profile     ProfileService
	Export      ExportService
}

// NewService builds the aggregate; blacklist may be nil
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, jwtMgr, blacklist, logger),
		Application: NewApplicationService(repo, logger),
		Message:     NewMessageService(repo, logger),
		User:        NewUserService(repo, logger),
		Profile:     NewProfileService(repo, logger),
		Export:      NewExportService(repo, logger),
	}
}
