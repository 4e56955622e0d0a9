package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/psychologist"
)

type PsychologistHandler struct {
	svc psychologist.Service
}

func NewPsychologistHandler(svc psychologist.Service) *PsychologistHandler {
	return &PsychologistHandler{svc: svc}
}

func mapPsychologistError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, psychologist.ErrNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /psychologists
func (h *PsychologistHandler) List(c fiber.Ctx) error {
	var q struct {
		Name         string `query:"name"`
		Topic        string `query:"topic"`
		Availability string `query:"availability"`
	}
	_ = c.Bind().Query(&q)

	req := psychologist.ListRequest{}
	if q.Name != "" {
		req.Name = &q.Name
	}
	if q.Topic != "" {
		req.Topic = &q.Topic
	}
	if q.Availability != "" {
		a := model.Availability(q.Availability)
		req.Availability = &a
	}

	out, err := h.svc.List(c.Context(), req)
	if err != nil {
		return mapPsychologistError(c, err)
	}
	return ok(c, out)
}

// GET /psychologists/:id
func (h *PsychologistHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid psychologist id")
	}

	out, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapPsychologistError(c, err)
	}
	return ok(c, out)
}
