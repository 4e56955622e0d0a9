package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
)

const (
	cacheKeyAll = "mentalwell:articles:all"
	cacheTTL    = 5 * time.Minute

	// Search keywords shorter than this are noise ("di", "ke", ...) and
	// are dropped before matching.
	minKeywordLen = 3
)

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type Store interface {
	List(ctx context.Context) ([]model.Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Article, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	All(ctx context.Context) ([]model.Article, error)
	Get(ctx context.Context, id uuid.UUID) (model.Article, error)
	Search(ctx context.Context, keyword string) ([]model.Article, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type articleService struct {
	store Store
	rdb   *redis.Client
	log   *slog.Logger
}

func New(store Store, rdb *redis.Client, log *slog.Logger) Service {
	return &articleService{store: store, rdb: rdb, log: log}
}

// All returns the full catalogue, served from Redis when the cached copy is
// still fresh. Cache failures degrade to a direct read.
func (s *articleService) All(ctx context.Context) ([]model.Article, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKeyAll).Bytes()
		if err == nil {
			var out []model.Article
			if err := json.Unmarshal(cached, &out); err == nil {
				return out, nil
			}
			s.rdb.Del(ctx, cacheKeyAll)
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("article cache read", "error", err)
		}
	}

	out, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, cacheKeyAll, raw, cacheTTL).Err(); err != nil {
				s.log.Warn("article cache write", "error", err)
			}
		}
	}
	return out, nil
}

func (s *articleService) Get(ctx context.Context, id uuid.UUID) (model.Article, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return a, ErrNotFound
		}
		return a, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// Search matches title words case-insensitively. A blank keyword returns an
// empty result, not the whole catalogue.
func (s *articleService) Search(ctx context.Context, keyword string) ([]model.Article, error) {
	var keywords []string
	for _, k := range strings.Fields(strings.ToLower(keyword)) {
		if len(k) >= minKeywordLen {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return []model.Article{}, nil
	}

	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	out := []model.Article{}
	for _, a := range all {
		title := strings.ToLower(a.Title)
		for _, k := range keywords {
			if strings.Contains(title, k) {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}
