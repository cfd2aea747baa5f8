package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

const maxPropertyPageSize = 100

// PropertyService handles listing creation, moderation and the one-way owner
// claim.
type PropertyService struct {
	repo   ports.PropertyRepository
	logger zerolog.Logger
}

func NewPropertyService(repo ports.PropertyRepository, logger zerolog.Logger) *PropertyService {
	return &PropertyService{repo: repo, logger: logger}
}

func (s *PropertyService) Create(ctx context.Context, actor ports.Actor, input ports.CreatePropertyInput) (*domain.Property, error) {
	if !CanPerform(actor, ActPropertyCreate, Resource{}) {
		return nil, domain.ErrForbidden
	}

	listingType := domain.ListingType(input.ListingType)
	status := domain.PropertyForRent
	if listingType == domain.ListingSale {
		status = domain.PropertyForSale
	}

	now := time.Now().UTC()
	property := &domain.Property{
		Title:          input.Title,
		Description:    input.Description,
		Price:          input.Price,
		Address:        input.Address,
		City:           input.City,
		State:          input.State,
		ZipCode:        input.ZipCode,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		SquareFeet:     input.SquareFeet,
		PropertyType:   input.PropertyType,
		ListingType:    listingType,
		Status:         status,
		ApprovalStatus: domain.ApprovalPending,
		ImageURL:       input.ImageURL,
		OwnerID:        actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.logger.Info().
		Str("property_id", created.ID).
		Str("owner_id", actor.ID).
		Str("listing_type", string(created.ListingType)).
		Msg("property created")

	return created, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PropertyService) List(ctx context.Context, filter ports.ListPropertiesFilter) (*ports.ListPropertiesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > maxPropertyPageSize {
		filter.Limit = maxPropertyPageSize
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListPropertiesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Moderate sets the admin approval status of a listing.
func (s *PropertyService) Moderate(ctx context.Context, actor ports.Actor, id string, approved bool) (*domain.Property, error) {
	if !CanPerform(actor, ActPropertyApprove, Resource{}) {
		return nil, domain.ErrForbidden
	}

	status := domain.ApprovalRejected
	if approved {
		status = domain.ApprovalApproved
	}
	if err := s.repo.UpdateApproval(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info().Str("property_id", id).Str("approval", string(status)).Msg("property moderated")
	return s.repo.FindByID(ctx, id)
}

// Claim assigns the calling agent as owner of an unowned listing. The claim
// is one-way; a second claim fails.
func (s *PropertyService) Claim(ctx context.Context, actor ports.Actor, id string) (*domain.Property, error) {
	if !CanPerform(actor, ActPropertyClaim, Resource{}) {
		return nil, domain.ErrForbidden
	}

	if err := s.repo.Claim(ctx, id, actor.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("property_id", id).Str("owner_id", actor.ID).Msg("property claimed")
	return s.repo.FindByID(ctx, id)
}
