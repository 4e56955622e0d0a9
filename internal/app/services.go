package app

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/article"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/counseling"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/psychologist"
	"github.com/aninkinaa/mentalwell1.0-api/internal/service/schedule"
)

// ServiceModule provides all repositories and application services.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideCounselingRepository,
		ProvideConversationRepository,
		ProvidePsychologistRepository,
		ProvideScheduleRepository,
		ProvideArticleRepository,
		ProvideCounselingService,
		ProvideArticleService,
		ProvidePsychologistService,
		ProvideScheduleService,
	),
)

func ProvideCounselingRepository(pool *pgxpool.Pool) *repository.CounselingRepository {
	return repository.NewCounselingRepository(pool)
}

func ProvideConversationRepository(pool *pgxpool.Pool) *repository.ConversationRepository {
	return repository.NewConversationRepository(pool)
}

func ProvidePsychologistRepository(pool *pgxpool.Pool) *repository.PsychologistRepository {
	return repository.NewPsychologistRepository(pool)
}

func ProvideScheduleRepository(pool *pgxpool.Pool) *repository.ScheduleRepository {
	return repository.NewScheduleRepository(pool)
}

func ProvideArticleRepository(pool *pgxpool.Pool) *repository.ArticleRepository {
	return repository.NewArticleRepository(pool)
}

func ProvideCounselingService(
	repo *repository.CounselingRepository,
	schedules *repository.ScheduleRepository,
	nc *nats.Conn,
	loc *time.Location,
) counseling.Service {
	return counseling.New(repo, schedules, nc, loc, slog.Default())
}

func ProvideArticleService(repo *repository.ArticleRepository, rdb *redis.Client) article.Service {
	return article.New(repo, rdb, slog.Default())
}

func ProvidePsychologistService(repo *repository.PsychologistRepository) psychologist.Service {
	return psychologist.New(repo)
}

func ProvideScheduleService(
	repo *repository.ScheduleRepository,
	psychologists *repository.PsychologistRepository,
	loc *time.Location,
) schedule.Service {
	return schedule.New(repo, psychologists, loc)
}
