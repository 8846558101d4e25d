package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greenova/internal/models"
	"greenova/internal/search"
)

type createBookingRequest struct {
	Service       string    `json:"service" binding:"required"`
	BookingDate   time.Time `json:"bookingDate" binding:"required"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"paymentMethod" binding:"required"`
}

// CreateBooking books an approved service for the caller.
func CreateBooking(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BOOKING")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "BOOKING", "unauthorized")
			return
		}

		var req createBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "BOOKING", "service, bookingDate and paymentMethod are required")
			return
		}

		serviceID, err := primitive.ObjectIDFromHex(req.Service)
		if err != nil {
			respondError(c, http.StatusBadRequest, "BOOKING", "invalid service id")
			return
		}

		if !containsString(models.BookingPaymentMethods, req.PaymentMethod) {
			respondError(c, http.StatusBadRequest, "BOOKING", "invalid paymentMethod")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var service models.Service
		err = db.Collection("services").FindOne(ctx,
			bson.M{"_id": serviceID, "status": models.StatusApproved}).Decode(&service)
		if err != nil {
			respondError(c, http.StatusNotFound, "BOOKING", "service not found")
			return
		}

		now := time.Now()
		booking := models.Booking{
			User:          userID,
			Service:       service.ID,
			Business:      service.Business,
			BookingDate:   req.BookingDate,
			Description:   req.Description,
			Status:        models.BookingPending,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: models.PaymentPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		res, err := db.Collection("bookings").InsertOne(ctx, booking)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "BOOKING", "db error")
			return
		}
		booking.ID, _ = res.InsertedID.(primitive.ObjectID)
		respondData(c, http.StatusCreated, booking)
	}
}

// MyBookings lists the caller's bookings, optionally filtered by status,
// newest first.
func MyBookings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BOOKING")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "BOOKING", "unauthorized")
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "BOOKING", "invalid pagination parameters")
			return
		}

		filter := bson.M{"user": userID}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		total, err := db.Collection("bookings").CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "BOOKING", "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("bookings").Find(ctx, filter, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "BOOKING", "db error")
			return
		}
		defer cursor.Close(ctx)

		bookings := []models.Booking{}
		if err := cursor.All(ctx, &bookings); err != nil {
			respondError(c, http.StatusInternalServerError, "BOOKING", "db error")
			return
		}

		respondPage(c, bookings, search.Paginate(page, limit, total))
	}
}

// CancelBooking cancels the caller's own pending booking. The filter matches
// on owner and status in one shot, so a booking that exists but is not the
// caller's, or is past pending, reads as not found.
func CancelBooking(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BOOKING")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "BOOKING", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "BOOKING", "invalid id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var booking models.Booking
		err = db.Collection("bookings").FindOneAndUpdate(ctx,
			cancelBookingFilter(id, userID),
			bson.M{"$set": bson.M{"status": models.BookingCancelled, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&booking)
		if err != nil {
			respondError(c, http.StatusNotFound, "BOOKING", "booking not found")
			return
		}
		respondData(c, http.StatusOK, booking)
	}
}

func cancelBookingFilter(bookingID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":    bookingID,
		"user":   userID,
		"status": models.BookingPending,
	}
}
