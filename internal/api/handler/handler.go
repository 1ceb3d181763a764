package handler

import "github.com/22146025/lord-s-heart-educational-complex/internal/service"

// Handler aggregate of every HTTP handler
type Handler struct {
	Auth        *AuthHandler
	Application *ApplicationHandler
	Message     *MessageHandler
	User        *UserHandler
	Profile     *ProfileHandler
	Export      *ExportHandler
	Health      *HealthHandler
}

// NewHandler builds the aggregate; ping may be nil
func NewHandler(svc *service.Service, ping Pinger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Application: NewApplicationHandler(svc.Application),
		Message:     NewMessageHandler(svc.Message),
		User:        NewUserHandler(svc.User),
		Profile:     NewProfileHandler(svc.Profile),
		Export:      NewExportHandler(svc.Export),
		Health:      NewHealthHandler(ping),
	}
}
