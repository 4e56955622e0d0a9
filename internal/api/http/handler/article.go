package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/aninkinaa/mentalwell1.0-api/internal/service/article"
)

type ArticleHandler struct {
	svc article.Service
}

func NewArticleHandler(svc article.Service) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

func mapArticleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, article.ErrNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /articles
func (h *ArticleHandler) List(c fiber.Ctx) error {
	keyword := c.Query("search")

	if keyword != "" {
		out, err := h.svc.Search(c.Context(), keyword)
		if err != nil {
			return mapArticleError(c, err)
		}
		return ok(c, out)
	}

	out, err := h.svc.All(c.Context())
	if err != nil {
		return mapArticleError(c, err)
	}
	return ok(c, out)
}

// GET /articles/:id
func (h *ArticleHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid article id")
	}

	out, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapArticleError(c, err)
	}
	return ok(c, out)
}
