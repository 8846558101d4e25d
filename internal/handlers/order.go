package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greenova/internal/models"
)

type orderItemRequest struct {
	ItemType string  `json:"itemType" binding:"required"`
	ItemID   string  `json:"itemId" binding:"required"`
	Quantity int     `json:"quantity" binding:"required"`
	Price    float64 `json:"price"`
}

type placeOrderRequest struct {
	Items           []orderItemRequest     `json:"items" binding:"required"`
	ShippingFee     float64                `json:"shippingFee"`
	ShippingOptions string                 `json:"shippingOptions"`
	SalesTax        float64                `json:"salesTax"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

var errPriceMismatch = errors.New("item price mismatch")

// PlaceOrder creates an order from machinery, spare-part and raw-material
// items. Each item's price is re-read from its listing; a client price that
// disagrees with the stored one rejects the whole order, and the total is
// computed server-side either way.
func PlaceOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ORDER")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "ORDER", "unauthorized")
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "ORDER", "items and paymentMethod are required")
			return
		}
		if len(req.Items) == 0 {
			respondError(c, http.StatusBadRequest, "ORDER", "order must contain at least one item")
			return
		}
		if req.ShippingOptions == "" {
			req.ShippingOptions = "standard"
		}
		if !containsString(models.ShippingOptions, req.ShippingOptions) {
			respondError(c, http.StatusBadRequest, "ORDER", "invalid shippingOptions")
			return
		}
		if !containsString(models.OrderPaymentMethods, req.PaymentMethod) {
			respondError(c, http.StatusBadRequest, "ORDER", "invalid paymentMethod")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		items := make([]models.OrderItem, 0, len(req.Items))
		itemsTotal := 0.0
		for _, item := range req.Items {
			resolved, err := resolveOrderItem(ctx, db, item)
			if err != nil {
				status := http.StatusBadRequest
				if errors.Is(err, mongo.ErrNoDocuments) {
					status = http.StatusNotFound
				}
				respondError(c, status, "ORDER", err.Error())
				return
			}
			items = append(items, *resolved)
			itemsTotal += resolved.Price * float64(resolved.Quantity)
		}

		order := models.Order{
			UserID:          userID,
			Items:           items,
			ShippingFee:     req.ShippingFee,
			ShippingOptions: req.ShippingOptions,
			SalesTax:        req.SalesTax,
			TotalAmount:     itemsTotal + req.ShippingFee + req.SalesTax,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Status:          models.OrderPending,
			OrderDate:       time.Now(),
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "ORDER", "db error")
			return
		}
		order.ID, _ = res.InsertedID.(primitive.ObjectID)
		respondData(c, http.StatusCreated, order)
	}
}

// resolveOrderItem loads the referenced listing and builds the stored line
// item from its authoritative price, name and image.
func resolveOrderItem(ctx context.Context, db *mongo.Database, item orderItemRequest) (*models.OrderItem, error) {
	if item.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	id, err := primitive.ObjectIDFromHex(item.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item id %q", item.ItemID)
	}

	resolved := models.OrderItem{
		ItemType: item.ItemType,
		ItemID:   id,
		Quantity: item.Quantity,
	}

	switch item.ItemType {
	case models.ItemMachinery:
		var sale models.MachinerySale
		if err := db.Collection("machinerysales").FindOne(ctx, bson.M{"_id": id}).Decode(&sale); err != nil {
			return nil, err
		}
		resolved.Price = sale.Price
		resolved.Currency = sale.Currency
		resolved.ItemName = sale.MachineName
		resolved.ItemImg = firstImage(sale.Images)
	case models.ItemSparePart:
		var part models.SparePart
		if err := db.Collection("spareparts").FindOne(ctx, bson.M{"_id": id}).Decode(&part); err != nil {
			return nil, err
		}
		resolved.Price = part.Price
		resolved.Currency = part.Currency
		resolved.ItemName = part.PartCategory
		resolved.ItemImg = firstImage(part.Images)
	case models.ItemRawMaterial:
		var material models.RawMaterial
		if err := db.Collection("rawmaterials").FindOne(ctx, bson.M{"_id": id}).Decode(&material); err != nil {
			return nil, err
		}
		resolved.Price = material.Price.Amount
		resolved.Currency = material.Currency
		resolved.ItemName = material.MaterialCategory
		resolved.ItemImg = firstImage(material.Images)
	default:
		return nil, fmt.Errorf("unknown itemType %q", item.ItemType)
	}

	if err := checkItemPrice(item.Price, resolved.Price); err != nil {
		return nil, err
	}
	return &resolved, nil
}

// checkItemPrice compares the client-sent price against the stored one. A
// zero client price means the client did not assert a price at all.
func checkItemPrice(clientPrice, storedPrice float64) error {
	if clientPrice != 0 && clientPrice != storedPrice {
		return errPriceMismatch
	}
	return nil
}

func firstImage(images []string) string {
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

// MyOrders lists the caller's orders, newest first.
func MyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ORDER")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "ORDER", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "ORDER", "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, "ORDER", "db error")
			return
		}
		respondData(c, http.StatusOK, orders)
	}
}
