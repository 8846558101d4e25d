package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking lifecycle: pending -> confirmed -> completed, or pending -> cancelled.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Payment states on a booking.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Service       primitive.ObjectID `bson:"service" json:"service"`
	Business      primitive.ObjectID `bson:"business,omitempty" json:"business,omitempty"`
	BookingDate   time.Time          `bson:"bookingDate" json:"bookingDate"`
	Description   string             `bson:"description" json:"description"`
	Status        string             `bson:"status" json:"status"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BookingPaymentMethods accepted when creating a booking.
var BookingPaymentMethods = []string{"Cash On Delivery", "Card"}
