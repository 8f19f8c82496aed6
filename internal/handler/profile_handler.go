package handler

import (
	"github.com/gofiber/fiber/v2"

	"issueradar/internal/apierr"
	"issueradar/internal/middleware"
	"issueradar/internal/service"
)

// ProfileHandler wires HTTP → ProfileService.
type ProfileHandler struct {
	svc service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Register mounts the profile endpoints on the supplied router group.
func (h *ProfileHandler) Register(r fiber.Router) {
	r.Get("/profile", h.get)
	r.Put("/profile", h.update)
	r.Post("/profile/setup", h.setup)
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	profile, err := h.svc.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	var update service.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return apierr.Validation(map[string]string{"body": "must be valid JSON"})
	}

	profile, err := h.svc.Update(c.UserContext(), middleware.UserID(c), update)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) setup(c *fiber.Ctx) error {
	var update service.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return apierr.Validation(map[string]string{"body": "must be valid JSON"})
	}

	profile, err := h.svc.Setup(c.UserContext(), middleware.UserID(c), update)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}
