package domain

import (
	"errors"
	"time"
)

// PropertyStatus is the market availability of a listing.
type PropertyStatus string

const (
	PropertyForSale PropertyStatus = "FOR_SALE"
	PropertyForRent PropertyStatus = "FOR_RENT"
	PropertySold    PropertyStatus = "SOLD"
	PropertyRented  PropertyStatus = "RENTED"
)

// ApprovalStatus is the admin moderation state of a listing.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ListingType distinguishes what kind of deal a listing offers.
type ListingType string

const (
	ListingSale ListingType = "SALE"
	ListingRent ListingType = "RENT"
	ListingPg   ListingType = "PG"
)

var ErrPropertyNotFound = errors.New("property not found")
var ErrPropertyUnavailable = errors.New("property not available")
var ErrPropertyNoOwner = errors.New("property has no assigned owner")
var ErrPropertyClaimed = errors.New("property already has an owner")

// Property is a real-estate listing. OwnerID is empty until an agent claims
// the listing; the claim is one-way.
type Property struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	Title          string         `json:"title" bson:"title"`
	Description    string         `json:"description" bson:"description"`
	Price          float64        `json:"price" bson:"price"`
	Address        string         `json:"address" bson:"address"`
	City           string         `json:"city" bson:"city"`
	State          string         `json:"state" bson:"state"`
	ZipCode        string         `json:"zip_code" bson:"zip_code"`
	Bedrooms       int            `json:"bedrooms" bson:"bedrooms"`
	Bathrooms      int            `json:"bathrooms" bson:"bathrooms"`
	SquareFeet     int            `json:"square_feet" bson:"square_feet"`
	PropertyType   string         `json:"property_type" bson:"property_type"`
	ListingType    ListingType    `json:"listing_type" bson:"listing_type"`
	Status         PropertyStatus `json:"status" bson:"status"`
	ApprovalStatus ApprovalStatus `json:"approval_status" bson:"approval_status"`
	ImageURL       string         `json:"image_url,omitempty" bson:"image_url,omitempty"`
	OwnerID        string         `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

// SoldStatus returns the availability status a listing moves to once an
// inquiry for it completes payment.
func (p *Property) SoldStatus() PropertyStatus {
	if p.ListingType == ListingSale {
		return PropertySold
	}
	return PropertyRented
}

// PgRoom groups beds inside a PG property.
type PgRoom struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	PropertyID string `json:"property_id" bson:"property_id"`
	RoomNumber string `json:"room_number" bson:"room_number"`
	Capacity   int    `json:"capacity" bson:"capacity"`
}

var ErrBedNotFound = errors.New("bed not found")
var ErrBedOccupied = errors.New("bed is already occupied")

// PgBed is the bookable unit of a paying-guest listing.
type PgBed struct {
	ID          string  `json:"id" bson:"_id,omitempty"`
	RoomID      string  `json:"room_id" bson:"room_id"`
	PropertyID  string  `json:"property_id" bson:"property_id"`
	BedNumber   string  `json:"bed_number" bson:"bed_number"`
	MonthlyRent float64 `json:"monthly_rent" bson:"monthly_rent"`
	Occupied    bool    `json:"occupied" bson:"occupied"`
}
