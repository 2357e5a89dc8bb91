package supplier

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/core/id"
	"stockledger/pkg/logger"
)

// Service provides business operations for the Supplier catalog.
type Service struct {
	repo Repository
}

// NewService creates a Supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) (*Supplier, error) {
	if err := sup.Validate(ctx); err != nil {
		return nil, err
	}

	if id.IsNil(sup.ID) {
		sup.ID = id.New()
	}
	now := time.Now().UTC()
	sup.CreatedAt = now
	sup.UpdatedAt = now
	sup.IsActive = true

	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	logger.Info(ctx, "supplier created", "supplier_id", sup.ID, "name", sup.Name)
	return sup, nil
}

// Update validates and persists changes to an existing supplier.
func (s *Service) Update(ctx context.Context, sup *Supplier) (*Supplier, error) {
	if err := sup.Validate(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, sup.ID)
	if err != nil {
		return nil, err
	}
	sup.CreatedAt = existing.CreatedAt
	sup.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return sup, nil
}

// Get returns a supplier by id.
func (s *Service) Get(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// List returns suppliers matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Supplier, error) {
	return s.repo.List(ctx, filter)
}

// Deactivate soft-deletes a supplier. Past purchases keep referencing it.
func (s *Service) Deactivate(ctx context.Context, supplierID id.ID) error {
	sup, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if !sup.IsActive {
		return nil
	}
	sup.IsActive = false
	sup.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, sup); err != nil {
		return fmt.Errorf("deactivate supplier: %w", err)
	}
	logger.Info(ctx, "supplier deactivated", "supplier_id", supplierID)
	return nil
}
