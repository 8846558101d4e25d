package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SparePart struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Supplier               primitive.ObjectID `bson:"supplier" json:"supplier"`
	PartCategory           string             `bson:"partCategory" json:"partCategory"`
	SubCategory            string             `bson:"subCategory" json:"subCategory"`
	Description            string             `bson:"description" json:"description"`
	CompatibleBrands       StringList         `bson:"compatibleBrands" json:"compatibleBrands"`
	CompatibleModels       StringList         `bson:"compatibleModels" json:"compatibleModels"`
	Condition              string             `bson:"condition" json:"condition"`
	FixedPrice             bool               `bson:"fixedPrice" json:"fixedPrice"`
	NegotiablePrice        bool               `bson:"negotiablePrice" json:"negotiablePrice"`
	Price                  float64            `bson:"price" json:"price"`
	Currency               string             `bson:"currency" json:"currency"`
	Images                 []string           `bson:"spareParts_images" json:"spareParts_images"`
	LocationCountry        string             `bson:"locationCountry" json:"locationCountry"`
	LocationCity           string             `bson:"locationCity" json:"locationCity"`
	Availability           string             `bson:"availability" json:"availability"`
	Ratings                float64            `bson:"ratings" json:"ratings"`
	Warranty               Measure            `bson:"warranty" json:"warranty"`
	BulkDiscountsAvailable bool               `bson:"bulkDiscountsAvailable" json:"bulkDiscountsAvailable"`
	BulkDiscounts          string             `bson:"bulkDiscounts,omitempty" json:"bulkDiscounts,omitempty"`
	Status                 string             `bson:"status" json:"status"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}
