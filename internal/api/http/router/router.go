package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/aninkinaa/mentalwell1.0-api/config"
	"github.com/aninkinaa/mentalwell1.0-api/internal/api/http/handler"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/article"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/counseling"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/psychologist"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/schedule"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	CounselingSvc   counseling.Service
	ArticleSvc      article.Service
	PsychologistSvc psychologist.Service
	ScheduleSvc     schedule.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Handlers
	counselingH := handler.NewCounselingHandler(r.p.CounselingSvc)
	articleH := handler.NewArticleHandler(r.p.ArticleSvc)
	psychologistH := handler.NewPsychologistHandler(r.p.PsychologistSvc)
	scheduleH := handler.NewScheduleHandler(r.p.ScheduleSvc)

	api := app.Group("/api/v1")

	// 3. Delegate to sub-files
	r.registerCounselingRoutes(api, counselingH)
	r.registerArticleRoutes(api, articleH)
	r.registerPsychologistRoutes(api, psychologistH, scheduleH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New())
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
