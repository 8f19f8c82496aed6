package handler

import (
	"github.com/gofiber/fiber/v2"

	"issueradar/internal/apierr"
	"issueradar/internal/middleware"
	"issueradar/internal/service"
)

// DigestHandler wires HTTP → DigestService.
type DigestHandler struct {
	svc service.DigestService
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(svc service.DigestService) *DigestHandler {
	return &DigestHandler{svc: svc}
}

// Register mounts the digest endpoints on the supplied router group.
func (h *DigestHandler) Register(r fiber.Router) {
	r.Post("/digest/subscribe", h.subscribe)
	r.Get("/digest/subscription", h.get)
	r.Delete("/digest/subscription", h.unsubscribe)
}

func (h *DigestHandler) subscribe(c *fiber.Ctx) error {
	var req service.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.Validation(map[string]string{"body": "must be valid JSON"})
	}

	sub, err := h.svc.Subscribe(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *DigestHandler) get(c *fiber.Ctx) error {
	sub, err := h.svc.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(sub)
}

func (h *DigestHandler) unsubscribe(c *fiber.Ctx) error {
	if err := h.svc.Unsubscribe(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
