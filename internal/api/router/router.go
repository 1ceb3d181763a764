package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/22146025/lord-s-heart-educational-complex/config"
	"github.com/22146025/lord-s-heart-educational-complex/internal/access"
	"github.com/22146025/lord-s-heart-educational-complex/internal/api/handler"
	"github.com/22146025/lord-s-heart-educational-complex/internal/api/middleware"
	"github.com/22146025/lord-s-heart-educational-complex/internal/api/validate"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/jwt"
)

// Deps optional infrastructure; nil fields disable the feature
type Deps struct {
	Revoked middleware.RevocationChecker
	Limiter middleware.RateLimiter
}

// Setup builds the gin engine with every /api/v1 route
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, deps Deps, logger *zap.Logger) *gin.Engine {
	validate.Register()

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.OptionalAuth(jwtMgr, deps.Revoked, logger))

	r.GET("/health", h.Health.Health)

	// public form throttling
	formLimit := func(c *gin.Context) { c.Next() }
	loginLimit := formLimit
	if cfg.RateLimit.Enabled && deps.Limiter != nil {
		formLimit = middleware.RateLimit(deps.Limiter, cfg.RateLimit.PublicFormLimit, cfg.RateLimit.PublicFormWindow)
		loginLimit = middleware.RateLimit(deps.Limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow)
	}

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimit, allow(access.Auth, access.Login), h.Auth.Login)
			auth.POST("/logout", allow(access.Auth, access.Logout), h.Auth.Logout)
		}

		apps := v1.Group("/applications")
		{
			app := func(op access.Operation) gin.HandlerFunc { return allow(access.Application, op) }

			apps.POST("", formLimit, app(access.Create), h.Application.CreateApplication)
			apps.GET("", app(access.List), h.Application.ListApplications)
			apps.GET("/statistics", app(access.Statistics), h.Application.Statistics)
			apps.GET("/pending", app(access.Pending), h.Application.PendingApplications)
			apps.GET("/export", app(access.Export), h.Export.ExportApplications)
			apps.POST("/bulk/approve", app(access.Bulk), h.Application.BulkApprove)
			apps.POST("/bulk/reject", app(access.Bulk), h.Application.BulkReject)
			apps.POST("/bulk/mark-reviewed", app(access.Bulk), h.Application.BulkMarkReviewed)
			apps.GET("/:id", app(access.Retrieve), h.Application.GetApplication)
			apps.PUT("/:id", app(access.Update), h.Application.UpdateApplication)
			apps.PATCH("/:id", app(access.Update), h.Application.UpdateApplication)
			apps.DELETE("/:id", app(access.Delete), h.Application.DeleteApplication)
			apps.POST("/:id/approve", app(access.Approve), h.Application.ApproveApplication)
			apps.POST("/:id/reject", app(access.Reject), h.Application.RejectApplication)
		}

		msgs := v1.Group("/messages")
		{
			msg := func(op access.Operation) gin.HandlerFunc { return allow(access.Message, op) }

			msgs.POST("", formLimit, msg(access.Create), h.Message.CreateMessage)
			msgs.GET("", msg(access.List), h.Message.ListMessages)
			msgs.GET("/statistics", msg(access.Statistics), h.Message.Statistics)
			msgs.GET("/new", msg(access.New), h.Message.NewMessages)
			msgs.GET("/export", msg(access.Export), h.Export.ExportMessages)
			msgs.POST("/bulk/mark-as-read", msg(access.Bulk), h.Message.BulkMarkAsRead)
			msgs.POST("/bulk/mark-as-replied", msg(access.Bulk), h.Message.BulkMarkAsReplied)
			msgs.POST("/bulk/archive", msg(access.Bulk), h.Message.BulkArchive)
			msgs.GET("/:id", msg(access.Retrieve), h.Message.GetMessage)
			msgs.PUT("/:id", msg(access.Update), h.Message.UpdateMessage)
			msgs.PATCH("/:id", msg(access.Update), h.Message.UpdateMessage)
			msgs.DELETE("/:id", msg(access.Delete), h.Message.DeleteMessage)
			msgs.POST("/:id/mark-as-read", msg(access.MarkAsRead), h.Message.MarkAsRead)
			msgs.POST("/:id/mark-as-replied", msg(access.MarkAsReplied), h.Message.MarkAsReplied)
			msgs.POST("/:id/archive", msg(access.Archive), h.Message.Archive)
		}

		users := v1.Group("/users")
		{
			user := func(op access.Operation) gin.HandlerFunc { return allow(access.User, op) }

			users.POST("", user(access.Create), h.User.CreateUser)
			users.GET("", user(access.List), h.User.ListUsers)
			users.GET("/statistics", user(access.Statistics), h.User.Statistics)
			users.GET("/me", user(access.Me), h.User.GetCurrentUser)
			users.PUT("/me", user(access.UpdateMe), h.User.UpdateCurrentUser)
			users.PATCH("/me", user(access.UpdateMe), h.User.UpdateCurrentUser)
			users.POST("/me/change-password", user(access.ChangePassword), h.User.ChangePassword)
			users.GET("/:id", user(access.Retrieve), h.User.GetUser)
			users.PUT("/:id", user(access.Update), h.User.UpdateUser)
			users.PATCH("/:id", user(access.Update), h.User.UpdateUser)
			users.DELETE("/:id", user(access.Delete), h.User.DeleteUser)
		}

		profiles := v1.Group("/profiles")
		{
			profile := func(op access.Operation) gin.HandlerFunc { return allow(access.Profile, op) }

			profiles.GET("", profile(access.List), h.Profile.ListProfiles)
			profiles.GET("/:id", profile(access.Retrieve), h.Profile.GetProfile)
			profiles.PUT("/:id", profile(access.Update), h.Profile.UpdateProfile)
			profiles.PATCH("/:id", profile(access.Update), h.Profile.UpdateProfile)
			profiles.DELETE("/:id", profile(access.Delete), h.Profile.DeleteProfile)
		}
	}

	return r
}

func allow(resource access.Resource, op access.Operation) gin.HandlerFunc {
	return middleware.Authorize(resource, op)
}
