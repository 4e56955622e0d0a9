package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/aninkinaa/mentalwell1.0-api/internal/api/http/handler"
)

func (r *Router) registerCounselingRoutes(api fiber.Router, ch *handler.CounselingHandler) {
	counselings := api.Group("/counselings")

	counselings.Get("/", ch.List)

	c := counselings.Group("/:id")
	c.Get("/", ch.GetByID)
	c.Patch("/payment", ch.ChangePaymentStatus)
}
