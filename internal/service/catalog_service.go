package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"surveyflow/internal/catalog"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
)

var (
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrForbidden       = errors.New("forbidden")
)

// CatalogService handles catalog CRUD and hands out validated indexes to
// sessions
type CatalogService struct {
	catalogRepo repository.CatalogRepo
	defaultIdx  *catalog.Index

	mu      sync.RWMutex
	indexes map[string]*catalog.Index
}

// NewCatalogService creates a new catalog service. defaultIdx is served under
// model.DefaultCatalogID without a repository lookup.
func NewCatalogService(catalogRepo repository.CatalogRepo, defaultIdx *catalog.Index) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		defaultIdx:  defaultIdx,
		indexes:     make(map[string]*catalog.Index),
	}
}

// Create validates and stores a new catalog owned by hostID
func (s *CatalogService) Create(ctx context.Context, hostID string, c *model.Catalog) (string, error) {
	if err := catalog.Validate(c); err != nil {
		return "", err
	}
	c.HostID = hostID
	id, err := s.catalogRepo.Create(ctx, c)
	if err != nil {
		return "", fmt.Errorf("failed to create catalog: %w", err)
	}
	return id, nil
}

// GetByID returns a catalog; the default catalog is readable by any host
func (s *CatalogService) GetByID(ctx context.Context, hostID, id string) (*model.Catalog, error) {
	if id == model.DefaultCatalogID {
		return s.defaultIdx.Catalog(), nil
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.HostID != hostID {
		return nil, ErrForbidden
	}
	return c, nil
}

// GetByHostID lists the catalogs owned by hostID
func (s *CatalogService) GetByHostID(ctx context.Context, hostID string) ([]*model.Catalog, error) {
	catalogs, err := s.catalogRepo.GetByHostID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if catalogs == nil {
		catalogs = []*model.Catalog{}
	}
	return catalogs, nil
}

// Update replaces a catalog owned by hostID. Running sessions keep the index
// they started with.
func (s *CatalogService) Update(ctx context.Context, hostID string, c *model.Catalog) error {
	if c.ID == model.DefaultCatalogID {
		return ErrForbidden
	}
	existing, err := s.load(ctx, c.ID)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return ErrForbidden
	}
	if err := catalog.Validate(c); err != nil {
		return err
	}

	c.HostID = hostID
	c.CreatedAt = existing.CreatedAt
	if err := s.catalogRepo.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCatalogNotFound
		}
		return fmt.Errorf("failed to update catalog: %w", err)
	}
	s.forget(c.ID)
	return nil
}

// Delete removes a catalog owned by hostID
func (s *CatalogService) Delete(ctx context.Context, hostID, id string) error {
	if id == model.DefaultCatalogID {
		return ErrForbidden
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return ErrForbidden
	}
	if err := s.catalogRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete catalog: %w", err)
	}
	s.forget(id)
	return nil
}

// Index returns the validated index of a catalog for running sessions
func (s *CatalogService) Index(ctx context.Context, id string) (*catalog.Index, error) {
	if id == model.DefaultCatalogID {
		return s.defaultIdx, nil
	}

	s.mu.RLock()
	idx, ok := s.indexes[id]
	s.mu.RUnlock()
	if ok {
		return idx, nil
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	idx, err = catalog.New(c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.indexes[id] = idx
	s.mu.Unlock()
	return idx, nil
}

// Owns reports whether hostID may see the catalog's sessions
func (s *CatalogService) Owns(ctx context.Context, hostID, id string) error {
	_, err := s.GetByID(ctx, hostID, id)
	return err
}

func (s *CatalogService) load(ctx context.Context, id string) (*model.Catalog, error) {
	c, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	if c == nil {
		return nil, ErrCatalogNotFound
	}
	return c, nil
}

func (s *CatalogService) forget(id string) {
	s.mu.Lock()
	delete(s.indexes, id)
	s.mu.Unlock()
}
