package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/aninkinaa/mentalwell1.0-api/internal/api/http/handler"
)

func (r *Router) registerPsychologistRoutes(api fiber.Router, ph *handler.PsychologistHandler, sh *handler.ScheduleHandler) {
	psychologists := api.Group("/psychologists")

	psychologists.Get("/", ph.List)

	p := psychologists.Group("/:id")
	p.Get("/", ph.GetByID)
	p.Get("/schedules", sh.ListForPsychologist)
	p.Get("/schedules/availability", sh.CheckAvailability)
}
