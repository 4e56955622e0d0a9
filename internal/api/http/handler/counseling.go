package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/counseling"
)

type CounselingHandler struct {
	svc counseling.Service
}

func NewCounselingHandler(svc counseling.Service) *CounselingHandler {
	return &CounselingHandler{svc: svc}
}

func mapCounselingError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, counseling.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, counseling.ErrPaymentFinal):
		return conflict(c, err.Error())
	case errors.Is(err, counseling.ErrApproveFailedSession):
		return conflict(c, err.Error())
	case errors.Is(err, counseling.ErrRejectionNoteRequired):
		return badRequest(c, err.Error())
	case errors.Is(err, counseling.ErrInvalidPaymentStatus):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /counselings
func (h *CounselingHandler) List(c fiber.Ctx) error {
	var q struct {
		Status        string `query:"status"`
		PaymentStatus string `query:"payment_status"`
		Page          int    `query:"page"`
		PerPage       int    `query:"per_page"`
	}
	_ = c.Bind().Query(&q)

	req := counseling.ListRequest{
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.Status != "" {
		s := model.CounselingStatus(q.Status)
		req.Status = &s
	}
	if q.PaymentStatus != "" {
		s := model.PaymentStatus(q.PaymentStatus)
		req.PaymentStatus = &s
	}

	out, err := h.svc.List(c.Context(), req)
	if err != nil {
		return mapCounselingError(c, err)
	}

	return ok(c, out)
}

// GET /counselings/:id
func (h *CounselingHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid counseling id")
	}

	out, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapCounselingError(c, err)
	}

	return ok(c, out)
}

// PATCH /counselings/:id/payment
func (h *CounselingHandler) ChangePaymentStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid counseling id")
	}

	var body struct {
		PaymentStatus string  `json:"payment_status"`
		Note          *string `json:"note"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.PaymentStatus == "" {
		return badRequest(c, "payment_status is required")
	}

	out, err := h.svc.ChangePaymentStatus(c.Context(), id, counseling.PaymentDecision{
		Status: model.PaymentStatus(body.PaymentStatus),
		Note:   body.Note,
	})
	if err != nil {
		return mapCounselingError(c, err)
	}

	return ok(c, out)
}
