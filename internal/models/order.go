package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order item discriminators referencing the catalog collections.
const (
	ItemMachinery   = "MachinerySale"
	ItemSparePart   = "sparePart"
	ItemRawMaterial = "rawMaterial"
)

// Order lifecycle is linear; there is no cancellation transition.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderCompleted = "completed"
)

// OrderItem is a single line item; ItemType selects the collection ItemID
// refers to.
type OrderItem struct {
	ItemType string             `bson:"itemType" json:"itemType"`
	ItemID   primitive.ObjectID `bson:"itemId" json:"itemId"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Currency string             `bson:"currency" json:"currency"`
	ItemName string             `bson:"itemName" json:"itemName"`
	ItemImg  string             `bson:"itemImg" json:"itemImg"`
	Price    float64            `bson:"price" json:"price"`
}

// ShippingAddress is the delivery destination of an order.
type ShippingAddress struct {
	HouseNo    string `bson:"houseNo,omitempty" json:"houseNo,omitempty"`
	Address    string `bson:"address,omitempty" json:"address,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
}

// Order defines the persisted order document.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingFee     float64            `bson:"shippingFee" json:"shippingFee"`
	ShippingOptions string             `bson:"shippingOptions" json:"shippingOptions"`
	SalesTax        float64            `bson:"salesTax" json:"salesTax"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	Status          string             `bson:"status" json:"status"`
	OrderDate       time.Time          `bson:"orderDate" json:"orderDate"`
}

// ShippingOptions accepted on orders.
var ShippingOptions = []string{"standard", "express", "priority"}

// OrderPaymentMethods accepted when placing an order.
var OrderPaymentMethods = []string{"cod", "card"}
