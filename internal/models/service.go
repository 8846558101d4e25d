package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pricing is the fixed amount + unit pair on a service listing.
type Pricing struct {
	Amount float64 `bson:"amount" json:"amount"`
	Unit   string  `bson:"unit" json:"unit"`
}

// ServiceHours captures the advertised working window of a service.
type ServiceHours struct {
	Days string `bson:"days,omitempty" json:"days,omitempty"`
	Time string `bson:"time,omitempty" json:"time,omitempty"`
}

type Service struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Business        primitive.ObjectID `bson:"business" json:"business"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Category        string             `bson:"category" json:"category"`
	Pricing         Pricing            `bson:"pricing" json:"pricing"`
	PricingType     string             `bson:"pricingType,omitempty" json:"pricingType,omitempty"`
	WorkingHours    ServiceHours       `bson:"workingHours,omitempty" json:"workingHours,omitempty"`
	Images          []string           `bson:"images" json:"images"`
	Location        *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Ratings         float64            `bson:"ratings" json:"ratings"`
	Reviews         []Review           `bson:"reviews" json:"reviews"`
	Status          string             `bson:"status" json:"status"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PricingTypes recognized on service listings.
var PricingTypes = []string{"Fixed Price", "Hourly Rate", "Project Based"}
