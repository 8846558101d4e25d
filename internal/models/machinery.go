package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing conditions shared by machinery and spare parts.
const (
	ConditionNew         = "New"
	ConditionUsed        = "Used"
	ConditionRefurbished = "Refurbished"
)

// Stock availability states for physical listings.
const (
	AvailabilityInStock    = "In Stock"
	AvailabilityOutOfStock = "Out of Stock"
	AvailabilityOnOrder    = "Available on Order"
)

type MachinerySale struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Business            primitive.ObjectID `bson:"business" json:"business"`
	MachineName         string             `bson:"machine_name" json:"machine_name"`
	MachineDescription  string             `bson:"machine_des" json:"machine_des"`
	MachineType         string             `bson:"machine_type" json:"machine_type"`
	Condition           string             `bson:"condition" json:"condition"`
	Brand               string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Model               string             `bson:"model,omitempty" json:"model,omitempty"`
	ModelYear           int                `bson:"model_year,omitempty" json:"model_year,omitempty"`
	FixedPrice          bool               `bson:"fixed_price" json:"fixed_price"`
	NegotiablePrice     bool               `bson:"negotiable_price" json:"negotiable_price"`
	Price               float64            `bson:"price" json:"price"`
	Currency            string             `bson:"currency" json:"currency"`
	LocationCountry     string             `bson:"location_country" json:"location_country"`
	LocationCity        string             `bson:"location_city,omitempty" json:"location_city,omitempty"`
	Images              []string           `bson:"machine_images" json:"machine_images"`
	FuelType            string             `bson:"fuelType,omitempty" json:"fuelType,omitempty"`
	Power               Measure            `bson:"power" json:"power"`
	Dimensions          string             `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	ProductionCapacity  Measure            `bson:"productionCapacity" json:"productionCapacity"`
	Weight              Measure            `bson:"weight" json:"weight"`
	Availability        string             `bson:"availability" json:"availability"`
	Warranty            Measure            `bson:"warranty" json:"warranty"`
	FinancingOptions    string             `bson:"financingOptions,omitempty" json:"financingOptions,omitempty"`
	AfterSalesService   bool               `bson:"after_sales_service" json:"after_sales_service"`
	AccessoriesIncluded bool               `bson:"accessories_included" json:"accessories_included"`
	SparePartsAvailable bool               `bson:"spare_parts_available" json:"spare_parts_available"`
	Ratings             float64            `bson:"ratings" json:"ratings"`
	Reviews             []Review           `bson:"reviews" json:"reviews"`
	Status              string             `bson:"status" json:"status"`
	RejectionReason     string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FinancingOptions recognized on machinery listings.
var FinancingOptions = []string{
	"Bank Loans", "Leasing", "Supplier Credit", "Self-Financing",
	"Government Subsidies", "Investment Funds", "Islamic Financing",
	"Export Credit Agencies", "Commercial Credit Lines", "Crowdfunding",
	"Equipment Financing Programs", "Private Investors", "Joint Ventures",
	"Trade Agreements with Deferred Payment Options", "Factoring Services",
}
