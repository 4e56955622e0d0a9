package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/aninkinaa/mentalwell1.0-api/internal/api/http/handler"
)

func (r *Router) registerArticleRoutes(api fiber.Router, ah *handler.ArticleHandler) {
	articles := api.Group("/articles")

	articles.Get("/", ah.List)
	articles.Get("/:id", ah.GetByID)
}
