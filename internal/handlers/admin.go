package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greenova/internal/models"
)

// PendingServices lists service listings awaiting moderation.
func PendingServices(db *mongo.Database) gin.HandlerFunc {
	return pendingListings(db, "services")
}

// PendingMachinery lists machinery listings awaiting moderation.
func PendingMachinery(db *mongo.Database) gin.HandlerFunc {
	return pendingListings(db, "machinerysales")
}

// ApproveService marks a pending service approved.
func ApproveService(db *mongo.Database) gin.HandlerFunc {
	return approveListing(db, "services")
}

// ApproveMachinery marks a pending machinery listing approved.
func ApproveMachinery(db *mongo.Database) gin.HandlerFunc {
	return approveListing(db, "machinerysales")
}

// RejectService rejects a pending service; the reason is mandatory.
func RejectService(db *mongo.Database) gin.HandlerFunc {
	return rejectListing(db, "services")
}

// RejectMachinery rejects a pending machinery listing; the reason is
// mandatory.
func RejectMachinery(db *mongo.Database) gin.HandlerFunc {
	return rejectListing(db, "machinerysales")
}

func pendingListings(db *mongo.Database, collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADMIN")

		ctx, cancel := dbCtx(c)
		defer cancel()

		cursor, err := db.Collection(collection).Find(ctx, bson.M{"status": models.StatusPending})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "ADMIN", "db error")
			return
		}
		defer cursor.Close(ctx)

		results := []bson.M{}
		if err := cursor.All(ctx, &results); err != nil {
			respondError(c, http.StatusInternalServerError, "ADMIN", "db error")
			return
		}
		respondData(c, http.StatusOK, results)
	}
}

func approveListing(db *mongo.Database, collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADMIN")

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "ADMIN", "invalid id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		res, err := db.Collection(collection).UpdateOne(ctx,
			bson.M{"_id": id, "status": models.StatusPending},
			bson.M{"$set": bson.M{
				"status":    models.StatusApproved,
				"updatedAt": time.Now(),
			}, "$unset": bson.M{"rejectionReason": ""}})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "ADMIN", "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "ADMIN", "pending listing not found")
			return
		}
		respondMessage(c, http.StatusOK, "listing approved")
	}
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func rejectListing(db *mongo.Database, collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ADMIN")

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "ADMIN", "invalid id")
			return
		}

		var req rejectRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Reason) == "" {
			respondError(c, http.StatusBadRequest, "ADMIN", "reason is required")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		res, err := db.Collection(collection).UpdateOne(ctx,
			bson.M{"_id": id, "status": models.StatusPending},
			bson.M{"$set": bson.M{
				"status":          models.StatusRejected,
				"rejectionReason": strings.TrimSpace(req.Reason),
				"updatedAt":       time.Now(),
			}})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "ADMIN", "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "ADMIN", "pending listing not found")
			return
		}
		respondMessage(c, http.StatusOK, "listing rejected")
	}
}
