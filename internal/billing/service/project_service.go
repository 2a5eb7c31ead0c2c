package service

import (
	"context"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
	"github.com/tareas-api/proyectos-billing/internal/billing/repository"
	"github.com/tareas-api/proyectos-billing/internal/billing/store"
)

// ProjectService handles the read and delete side of the project list.
type ProjectService struct {
	store store.ProjectStore
	cache *repository.ListCache
}

// NewProjectService creates a new project service. cache may be nil.
func NewProjectService(st store.ProjectStore, cache *repository.ListCache) *ProjectService {
	return &ProjectService{
		store: st,
		cache: cache,
	}
}

// List returns one page of projects, served from the cache when a fresh copy
// exists. List is read-only and safe to run alongside any submission.
func (s *ProjectService) List(ctx context.Context, page, limit int) ([]domain.Project, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	if s.cache != nil {
		if items, ok, err := s.cache.Get(ctx, page, limit); err == nil && ok {
			return items, nil
		}
	}

	items, err := s.store.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// A stale page is re-fetched within the TTL anyway.
		_ = s.cache.Set(ctx, page, limit, items)
	}
	return items, nil
}

// Delete removes a project and invalidates cached pages.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
	return nil
}
