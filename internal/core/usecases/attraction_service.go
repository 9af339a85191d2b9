package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
)

// AttractionService handles attraction catalog reads.
type AttractionService struct {
	attractions ports.AttractionRepository
	cache       ports.CacheService
}

// NewAttractionService creates a new AttractionService. cache may be nil.
func NewAttractionService(attractions ports.AttractionRepository, cache ports.CacheService) *AttractionService {
	return &AttractionService{attractions: attractions, cache: cache}
}

// List returns a page of attractions plus the total count.
func (s *AttractionService) List(ctx context.Context, limit, offset int) ([]domain.Attraction, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.attractions.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.attractions.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID returns a single attraction.
func (s *AttractionService) GetByID(ctx context.Context, id string) (*domain.Attraction, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrBadInput)
	}
	a, err := s.attractions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: attraction %s", ErrNotFound, id)
	}
	return a, nil
}

// TopCategories returns the most common category labels with sample ids.
func (s *AttractionService) TopCategories(ctx context.Context, limit int) ([]domain.CategoryCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("categories:top:%d", limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var counts []domain.CategoryCount
			if err := json.Unmarshal(data, &counts); err == nil {
				return counts, nil
			}
		}
	}

	counts, err := s.attractions.TopCategories(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(counts); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return counts, nil
}
