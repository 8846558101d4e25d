package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Measure is an amount with its unit, e.g. {2, "tons/hour"} or {5, "years"}.
type Measure struct {
	Amount float64 `bson:"amount" json:"amount"`
	Unit   string  `bson:"unit" json:"unit"`
}

// GeoPoint is a GeoJSON point stored as [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

// Review is an embedded rating entry on a business or listing.
type Review struct {
	User    primitive.ObjectID `bson:"user" json:"user"`
	Ratings float64            `bson:"ratings,omitempty" json:"ratings,omitempty"`
	Comment string             `bson:"comment,omitempty" json:"comment,omitempty"`
}

// Approval states shared by services and machinery listings.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)
