package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
)

type PropertyService interface {
	List(ctx context.Context) ([]models.Property, error)
	Get(ctx context.Context, id models.ID) (*models.Property, error)
	Create(ctx context.Context, p models.Property) (*models.Property, error)
	Update(ctx context.Context, p models.Property) (*models.Property, error)
	Delete(ctx context.Context, id models.ID) error
}

type propertyService struct {
	api    client.PropertyAPI
	logger logging.Logger
}

func NewPropertyService(api client.PropertyAPI, logger logging.Logger) PropertyService {
	return &propertyService{api: api, logger: logger.With("service", "properties")}
}

func (s *propertyService) List(ctx context.Context) ([]models.Property, error) {
	return s.api.ListProperties(ctx)
}

func (s *propertyService) Get(ctx context.Context, id models.ID) (*models.Property, error) {
	return s.api.GetProperty(ctx, id)
}

func (s *propertyService) Create(ctx context.Context, p models.Property) (*models.Property, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	created, err := s.api.CreateProperty(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	s.logger.Info(ctx, "property created", "property", created.ID)
	return created, nil
}

func (s *propertyService) Update(ctx context.Context, p models.Property) (*models.Property, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: property id is required", common.ErrValidation)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateProperty(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update property %s: %w", p.ID, err)
	}
	return updated, nil
}

func (s *propertyService) Delete(ctx context.Context, id models.ID) error {
	if err := s.api.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return nil
}
