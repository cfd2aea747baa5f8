package ports

import (
	"context"

	"github.com/homequest/realty-api/internal/core/domain"
)

// ListPropertiesFilter carries all query parameters for listing properties.
type ListPropertiesFilter struct {
	City           string
	State          string
	ListingType    string
	Status         string
	ApprovalStatus string
	OwnerID        string
	MinPrice       float64
	MaxPrice       float64
	Search         string // partial match on title or address
	Page           int    // 1-based
	Limit          int    // capped at 100 by the service
}

// PropertyRepository defines persistence operations for listings.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	FindByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter ListPropertiesFilter) ([]*domain.Property, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error
	UpdateApproval(ctx context.Context, id string, status domain.ApprovalStatus) error
	// Claim assigns an owner to an unowned listing. It must fail with
	// domain.ErrPropertyClaimed when an owner is already set.
	Claim(ctx context.Context, id, ownerID string) error
}

// PgRepository defines persistence for PG rooms and beds.
type PgRepository interface {
	FindBed(ctx context.Context, bedID string) (*domain.PgBed, error)
	SetBedOccupied(ctx context.Context, bedID string, occupied bool) error
}

// CreatePropertyInput carries the data needed to create a listing.
type CreatePropertyInput struct {
	Title        string
	Description  string
	Price        float64
	Address      string
	City         string
	State        string
	ZipCode      string
	Bedrooms     int
	Bathrooms    int
	SquareFeet   int
	PropertyType string
	ListingType  string
	ImageURL     string
}

// ListPropertiesResult is a page of listings plus pagination totals.
type ListPropertiesResult struct {
	Items      []*domain.Property
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PropertyService defines use-case operations for listings.
type PropertyService interface {
	Create(ctx context.Context, actor Actor, input CreatePropertyInput) (*domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter ListPropertiesFilter) (*ListPropertiesResult, error)
	Moderate(ctx context.Context, actor Actor, id string, approved bool) (*domain.Property, error)
	Claim(ctx context.Context, actor Actor, id string) (*domain.Property, error)
}
