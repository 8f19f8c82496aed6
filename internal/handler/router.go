package handler

import (
	"github.com/gofiber/fiber/v2"

	"issueradar/internal/middleware"
	"issueradar/internal/service"
)

// RegisterRoutes mounts every API endpoint under /api/v1. All routes except
// /health require an authenticated session.
func RegisterRoutes(app *fiber.App,
	sessions middleware.SessionStore,
	feedSvc service.FeedService,
	statusSvc service.StatusService,
	profileSvc service.ProfileService,
	digestSvc service.DigestService,
) {
	v1 := app.Group("/api/v1")

	authed := v1.Group("", middleware.Auth(sessions))
	NewIssuesHandler(feedSvc, statusSvc).Register(authed)
	NewUserIssuesHandler(statusSvc).Register(authed)
	NewProfileHandler(profileSvc).Register(authed)
	NewDigestHandler(digestSvc).Register(authed)
}
