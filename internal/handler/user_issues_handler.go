package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"issueradar/internal/apierr"
	"issueradar/internal/middleware"
	"issueradar/internal/models"
	"issueradar/internal/service"
)

// UserIssuesHandler serves a user's tracked-issue listings.
type UserIssuesHandler struct {
	status service.StatusService
}

// NewUserIssuesHandler creates a new UserIssuesHandler.
func NewUserIssuesHandler(status service.StatusService) *UserIssuesHandler {
	return &UserIssuesHandler{status: status}
}

// Register mounts GET /user/issues plus the fixed-status shortcuts.
func (h *UserIssuesHandler) Register(r fiber.Router) {
	r.Get("/user/issues", h.list)
	r.Get("/user/issues/saved", h.fixed(models.StatusSaved))
	r.Get("/user/issues/done", h.fixed(models.StatusDone))
}

// list handles GET /user/issues?status=&page=&limit=. Status listings cap at
// 50 per page.
func (h *UserIssuesHandler) list(c *fiber.Ctx) error {
	return h.respond(c, c.Query("status"))
}

func (h *UserIssuesHandler) fixed(status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.respond(c, status)
	}
}

func (h *UserIssuesHandler) respond(c *fiber.Ctx, status string) error {
	details := map[string]string{}
	page := parsePositiveInt(c.Query("page"), "page", defaultPage, details)
	limit := parsePositiveInt(c.Query("limit"), "limit", defaultLimit, details)
	if limit > userListMaxLimit {
		details["limit"] = "must not exceed " + strconv.Itoa(userListMaxLimit)
	}
	if status != "" && !models.ValidStatus(status) {
		details["status"] = "must be one of: saved, started, done"
	}
	if len(details) > 0 {
		return apierr.Validation(details)
	}

	list, err := h.status.List(c.UserContext(), middleware.UserID(c), status, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(list)
}
