package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quantity is a stocked amount; the amount stays a string because suppliers
// list ranges like "500-1000" alongside plain numbers.
type Quantity struct {
	Amount string `bson:"amount" json:"amount"`
	Unit   string `bson:"unit" json:"unit"`
}

type RawMaterial struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Supplier               primitive.ObjectID `bson:"supplier" json:"supplier"`
	MaterialCategory       string             `bson:"materialCategory" json:"materialCategory"`
	MaterialSubCategory    string             `bson:"materialSubCategory" json:"materialSubCategory"`
	Description            string             `bson:"description" json:"description"`
	Shapes                 string             `bson:"shapes,omitempty" json:"shapes,omitempty"`
	IndustrialStandards    string             `bson:"industrialStandards" json:"industrialStandards"`
	PurityLevel            float64            `bson:"purityLevel" json:"purityLevel"`
	Dimensions             string             `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Quantity               Quantity           `bson:"quantity" json:"quantity"`
	FixedPrice             bool               `bson:"fixedPrice" json:"fixedPrice"`
	NegotiablePrice        bool               `bson:"negotiablePrice" json:"negotiablePrice"`
	Price                  Pricing            `bson:"price" json:"price"`
	Currency               string             `bson:"currency" json:"currency"`
	Images                 []string           `bson:"material_images" json:"material_images"`
	LocationCountry        string             `bson:"locationCountry" json:"locationCountry"`
	LocationCity           string             `bson:"locationCity" json:"locationCity"`
	Availability           string             `bson:"availability" json:"availability"`
	Ratings                float64            `bson:"ratings" json:"ratings"`
	BulkDiscountsAvailable bool               `bson:"bulkDiscountsAvailable" json:"bulkDiscountsAvailable"`
	Status                 string             `bson:"status" json:"status"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IndustrialStandards accepted on raw materials.
var IndustrialStandards = []string{"ISO", "ASTM"}
