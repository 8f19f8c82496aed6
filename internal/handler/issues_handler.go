package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"issueradar/internal/apierr"
	"issueradar/internal/middleware"
	"issueradar/internal/service"
)

// IssuesHandler wires HTTP → FeedService / StatusService.
type IssuesHandler struct {
	feed   service.FeedService
	status service.StatusService
}

// NewIssuesHandler creates a new IssuesHandler.
func NewIssuesHandler(feed service.FeedService, status service.StatusService) *IssuesHandler {
	return &IssuesHandler{feed: feed, status: status}
}

// Register mounts the issue endpoints on the supplied router group.
func (h *IssuesHandler) Register(r fiber.Router) {
	r.Get("/issues", h.getFeed)
	r.Get("/issues/:id", h.getIssue)
	r.Put("/issues/:id/status", h.setStatus)
	r.Post("/issues/:id/save", h.save)
	r.Delete("/issues/:id/save", h.unsave)
}

// getFeed handles GET /issues — the personalized feed.
func (h *IssuesHandler) getFeed(c *fiber.Ctx) error {
	details := map[string]string{}
	filters := parseFilters(c, details)
	opts := parseFeedOptions(c, details)
	if len(details) > 0 {
		return apierr.Validation(details)
	}

	resp, err := h.feed.Feed(c.UserContext(), middleware.UserID(c), filters, opts)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// getIssue handles GET /issues/:id?repo=owner/name. The upstream has no
// global issue lookup by id alone, so repo is mandatory.
func (h *IssuesHandler) getIssue(c *fiber.Ctx) error {
	id := c.Params("id")
	number, err := strconv.Atoi(id)
	if err != nil || number < 1 {
		return apierr.Validation(map[string]string{"id": "must be a positive issue number"})
	}

	repo := c.Query("repo")
	if repo == "" {
		return apierr.MissingContext(id)
	}
	if !validRepoName(repo) {
		return apierr.Validation(map[string]string{"repo": "must be owner/name"})
	}

	resp, err := h.feed.IssueDetail(c.UserContext(), middleware.UserID(c), repo, number)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

type statusRequest struct {
	Status string `json:"status"`
	Repo   string `json:"repo"`
}

// setStatus handles PUT /issues/:id/status with body {"status","repo"}.
func (h *IssuesHandler) setStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	number, err := strconv.Atoi(id)
	if err != nil || number < 1 {
		return apierr.Validation(map[string]string{"id": "must be a positive issue number"})
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.Validation(map[string]string{"body": "must be valid JSON"})
	}

	details := map[string]string{}
	if req.Repo == "" || !validRepoName(req.Repo) {
		details["repo"] = "must be owner/name"
	}
	if req.Status == "" {
		details["status"] = "is required"
	}
	if len(details) > 0 {
		return apierr.Validation(details)
	}

	record, err := h.status.SetStatus(c.UserContext(), middleware.UserID(c), req.Repo, number, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// save handles POST /issues/:id/save?repo=owner/name — shorthand for
// status=saved.
func (h *IssuesHandler) save(c *fiber.Ctx) error {
	userID, repo, number, err := h.saveParams(c)
	if err != nil {
		return err
	}
	record, err := h.status.Save(c.UserContext(), userID, repo, number)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// unsave handles DELETE /issues/:id/save?repo=owner/name.
func (h *IssuesHandler) unsave(c *fiber.Ctx) error {
	userID, repo, number, err := h.saveParams(c)
	if err != nil {
		return err
	}
	if err := h.status.Unsave(c.UserContext(), userID, repo, number); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *IssuesHandler) saveParams(c *fiber.Ctx) (userID, repo string, number int, err error) {
	id := c.Params("id")
	number, convErr := strconv.Atoi(id)
	if convErr != nil || number < 1 {
		return "", "", 0, apierr.Validation(map[string]string{"id": "must be a positive issue number"})
	}
	repo = c.Query("repo")
	if repo == "" {
		return "", "", 0, apierr.MissingContext(id)
	}
	if !validRepoName(repo) {
		return "", "", 0, apierr.Validation(map[string]string{"repo": "must be owner/name"})
	}
	return middleware.UserID(c), repo, number, nil
}
