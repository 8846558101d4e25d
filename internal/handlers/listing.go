package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// updateOwnedListing applies a whitelisted partial JSON update to a catalog
// document owned by the caller's business. An existing ID owned by someone
// else reads as not found, so ownership probing leaks nothing.
func updateOwnedListing(c *gin.Context, db *mongo.Database, collection, ownerField string, allowed map[string]bool) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "LISTING", "unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "LISTING", "invalid id")
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "LISTING", "invalid body")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	for field, value := range body {
		if allowed[field] {
			set[field] = value
		}
	}
	if len(set) == 1 {
		respondError(c, http.StatusBadRequest, "LISTING", "no updatable fields provided")
		return
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	business, err := businessByUser(ctx, db, userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "LISTING", "listing not found")
		return
	}

	res, err := db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id, ownerField: business.ID},
		bson.M{"$set": set})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LISTING", "db error")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, "LISTING", "listing not found")
		return
	}
	respondMessage(c, http.StatusOK, "listing updated")
}

// deleteOwnedListing removes a catalog document owned by the caller and
// drops its ID from the business cache array.
func deleteOwnedListing(c *gin.Context, db *mongo.Database, collection, ownerField, cacheField string) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "LISTING", "unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "LISTING", "invalid id")
		return
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	business, err := businessByUser(ctx, db, userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "LISTING", "listing not found")
		return
	}

	res, err := db.Collection(collection).DeleteOne(ctx,
		bson.M{"_id": id, ownerField: business.ID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LISTING", "db error")
		return
	}
	if res.DeletedCount == 0 {
		respondError(c, http.StatusNotFound, "LISTING", "listing not found")
		return
	}

	if _, err := db.Collection("businesses").UpdateByID(ctx, business.ID,
		bson.M{"$pull": bson.M{cacheField: id}}); err != nil {
		log.Println("[LISTING] business cache cleanup failed:", err)
	}
	respondMessage(c, http.StatusOK, "listing deleted")
}
