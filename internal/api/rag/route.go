package rag

import "github.com/gofiber/fiber/v3"

func RegisterRoutes(r fiber.Router, h *Handler) {
	grp := r.Group("/rag")

	grp.Post("/query", h.HandleQuery)
}
