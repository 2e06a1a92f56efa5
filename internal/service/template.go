package service

import (
	"context"
	"fmt"

	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/metrics"
	"github.com/monther20/bassita/internal/repository/redis"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateService serves the board template catalog. Templates are global
// and change rarely, so the list is cached under a single shared key.
type TemplateService struct {
	templateRepo TemplateRepository
	cache        Cache
}

// NewTemplateService creates a new template service
func NewTemplateService(templateRepo TemplateRepository, cache Cache) *TemplateService {
	return &TemplateService{templateRepo: templateRepo, cache: cache}
}

// List retrieves the active templates, reading through the cache
func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	key := redis.TemplateListKey()

	var cached []domain.Template
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("templates").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("templates").Inc()

	templates, err := s.templateRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	_ = s.cache.Set(ctx, key, templates, s.cache.ListTTL())
	return templates, nil
}

// Get retrieves one template, reading through the cache
func (s *TemplateService) Get(ctx context.Context, templateID primitive.ObjectID) (*domain.Template, error) {
	key := redis.TemplateKey(templateID.Hex())

	var cached domain.Template
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("templates").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("templates").Inc()

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if template == nil {
		return nil, domain.ErrNotFound
	}

	_ = s.cache.Set(ctx, key, template, s.cache.EntityTTL())
	return template, nil
}
