package product

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/core/id"
	"stockledger/pkg/logger"
)

// Service provides business operations for the Product catalog.
type Service struct {
	repo Repository
}

// NewService creates a Product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *Product) (*Product, error) {
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	if id.IsNil(p.ID) {
		p.ID = id.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.IsActive = true

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// Update validates and persists changes to an existing product.
func (s *Service) Update(ctx context.Context, p *Product) (*Product, error) {
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Product, error) {
	return s.repo.List(ctx, filter)
}

// Deactivate soft-deletes a product. Its movements remain in the ledger.
func (s *Service) Deactivate(ctx context.Context, productID id.ID) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	logger.Info(ctx, "product deactivated", "product_id", productID)
	return nil
}
