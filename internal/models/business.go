package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactInfo holds the public contact details of a business.
type ContactInfo struct {
	PhoneNumbers  []string `bson:"phoneNumbers" json:"phoneNumbers"`
	Website       string   `bson:"website,omitempty" json:"website,omitempty"`
	BusinessEmail string   `bson:"businessEmail" json:"businessEmail"`
	Facebook      string   `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Instagram     string   `bson:"instagram,omitempty" json:"instagram,omitempty"`
	LinkedIn      string   `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	YouTube       string   `bson:"youtube,omitempty" json:"youtube,omitempty"`
}

// Business is a provider-owned profile. The listing ID arrays are a
// denormalized cache; listings are authoritative via their own owner field.
type Business struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User              primitive.ObjectID   `bson:"user" json:"user"`
	Services          []primitive.ObjectID `bson:"services" json:"services"`
	Machines          []primitive.ObjectID `bson:"machines" json:"machines"`
	SpareParts        []primitive.ObjectID `bson:"spareParts" json:"spareParts"`
	RawMaterials      []primitive.ObjectID `bson:"rawMaterials" json:"rawMaterials"`
	BusinessName      string               `bson:"businessName" json:"businessName"`
	BusinessType      string               `bson:"businessType,omitempty" json:"businessType,omitempty"`
	YearsOfExperience int                  `bson:"years_of_experience" json:"years_of_experience"`
	ExpertiseLevel    string               `bson:"expertise_level,omitempty" json:"expertise_level,omitempty"`
	Description       string               `bson:"description,omitempty" json:"description,omitempty"`
	Logo              string               `bson:"logo" json:"logo"`
	Banner            string               `bson:"banner,omitempty" json:"banner,omitempty"`
	Location          *GeoPoint            `bson:"location,omitempty" json:"location,omitempty"`
	ContactInfo       ContactInfo          `bson:"contact_info" json:"contact_info"`
	Certifications    StringList           `bson:"certifications" json:"certifications"`
	WorkingHours      string               `bson:"workingHours,omitempty" json:"workingHours,omitempty"`
	Availability      string               `bson:"availability,omitempty" json:"availability,omitempty"`
	SubscriptionPlan  string               `bson:"subscriptionPlan,omitempty" json:"subscriptionPlan,omitempty"`
	Verified          bool                 `bson:"verified" json:"verified"`
	Ratings           float64              `bson:"ratings" json:"ratings"`
	Reviews           []Review             `bson:"reviews" json:"reviews"`
	NoOfOrders        int                  `bson:"noOfOrders" json:"noOfOrders"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// BusinessTypes are the legal forms a business can register under.
var BusinessTypes = []string{
	"SARL", "EURL", "SPA", "SNC", "SCS", "GIE",
	"Independent Contractor", "Auto - Entrepreneurs", "Freelancers",
	"Cooperatives", "EPIC", "Public Establishments",
}

// ExpertiseLevels order matters only for display.
var ExpertiseLevels = []string{"Beginner", "Intermediate", "Expert"}
