package documents

import "github.com/gofiber/fiber/v3"

func RegisterRoutes(r fiber.Router, h *Handler) {
	grp := r.Group("/documents")

	grp.Post("/process", h.HandleProcess)
}
