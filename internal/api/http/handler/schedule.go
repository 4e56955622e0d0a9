package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/service/schedule"
)

type ScheduleHandler struct {
	svc schedule.Service
}

func NewScheduleHandler(svc schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func mapScheduleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, schedule.ErrPsychologistNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, schedule.ErrNoSchedules):
		return notFound(c, err.Error())
	case errors.Is(err, schedule.ErrInvalidTimeRange):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /psychologists/:id/schedules
func (h *ScheduleHandler) ListForPsychologist(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid psychologist id")
	}

	out, err := h.svc.ListForPsychologist(c.Context(), id)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, out)
}

// GET /psychologists/:id/schedules/availability?date=...&time=HH:MM-HH:MM
func (h *ScheduleHandler) CheckAvailability(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid psychologist id")
	}

	date := c.Query("date")
	timeRange := c.Query("time")
	if date == "" || timeRange == "" {
		return badRequest(c, "date and time are required")
	}

	out, err := h.svc.CheckAvailability(c.Context(), id, date, timeRange)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, out)
}
