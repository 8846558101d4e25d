package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greenova/internal/models"
	"greenova/internal/search"
	"greenova/internal/storage"
	"greenova/internal/taxonomy"
)

// CreateService publishes a new service listing under the caller's business.
// The listing ID lands in the business document before the listing itself is
// written, so the parent's cache never references a missing child for long
// and a crash between the two writes leaves only a dangling ID.
func CreateService(db *mongo.Database, store storage.Uploader, registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SERVICE")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "SERVICE", "unauthorized")
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		category := strings.TrimSpace(c.PostForm("category"))
		if title == "" || category == "" {
			respondError(c, http.StatusBadRequest, "SERVICE", "title and category are required")
			return
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("pricingAmount")), 64)
		if err != nil || amount < 0 {
			respondError(c, http.StatusBadRequest, "SERVICE", "pricingAmount must be a non-negative number")
			return
		}

		pricingType := strings.TrimSpace(c.PostForm("pricingType"))
		if pricingType != "" && !containsString(models.PricingTypes, pricingType) {
			respondError(c, http.StatusBadRequest, "SERVICE", "invalid pricingType")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "SERVICE", "business not found")
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, http.StatusBadRequest, "SERVICE", "invalid form")
			return
		}
		files := form.File["images"]
		if len(files) > maxListingImages {
			respondError(c, http.StatusBadRequest, "SERVICE", "at most 5 images are allowed")
			return
		}

		images, err := uploadAll(ctx, store, files)
		if err != nil {
			log.Println("[SERVICE] image upload failed:", err)
			respondError(c, http.StatusInternalServerError, "SERVICE", "image upload failed")
			return
		}

		location, err := parseCoordinates(c.PostForm("longitude"), c.PostForm("latitude"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "SERVICE", err.Error())
			return
		}

		now := time.Now()
		service := models.Service{
			ID:          primitive.NewObjectID(),
			Business:    business.ID,
			Title:       title,
			Description: strings.TrimSpace(c.PostForm("description")),
			Category:    category,
			Pricing:     models.Pricing{Amount: amount, Unit: strings.TrimSpace(c.PostForm("pricingUnit"))},
			PricingType: pricingType,
			WorkingHours: models.ServiceHours{
				Days: strings.TrimSpace(c.PostForm("workingDays")),
				Time: strings.TrimSpace(c.PostForm("workingTime")),
			},
			Images:    images,
			Location:  location,
			Reviews:   []models.Review{},
			Status:    models.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := db.Collection("businesses").UpdateByID(ctx, business.ID,
			bson.M{"$push": bson.M{"services": service.ID}}); err != nil {
			respondError(c, http.StatusInternalServerError, "SERVICE", "db error")
			return
		}
		if _, err := db.Collection("services").InsertOne(ctx, service); err != nil {
			respondError(c, http.StatusInternalServerError, "SERVICE", "db error")
			return
		}

		if err := registry.AddServiceCategory(ctx, category); err != nil {
			log.Println("[SERVICE] category registration failed:", err)
		}

		respondData(c, http.StatusCreated, service)
	}
}

// SearchServices runs the public faceted service search; only approved
// listings are visible.
func SearchServices(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SERVICE")

		q, err := search.Build(search.Services(), c.Request.URL.Query())
		if err != nil {
			respondError(c, http.StatusBadRequest, "SERVICE", err.Error())
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		results, page, err := search.Run(ctx, db.Collection("services"), q)
		if err != nil {
			log.Println("[SERVICE] search failed:", err)
			respondError(c, http.StatusInternalServerError, "SERVICE", "search failed")
			return
		}
		respondPage(c, results, page)
	}
}

// GetService returns one approved service by ID.
func GetService(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SERVICE")

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "SERVICE", "invalid id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var service models.Service
		err = db.Collection("services").FindOne(ctx,
			bson.M{"_id": id, "status": models.StatusApproved}).Decode(&service)
		if err != nil {
			respondError(c, http.StatusNotFound, "SERVICE", "service not found")
			return
		}
		respondData(c, http.StatusOK, service)
	}
}

// MyServices lists the caller's own services regardless of approval status.
func MyServices(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SERVICE")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "SERVICE", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "SERVICE", "business not found")
			return
		}

		cursor, err := db.Collection("services").Find(ctx, bson.M{"business": business.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "SERVICE", "db error")
			return
		}
		defer cursor.Close(ctx)

		services := []models.Service{}
		if err := cursor.All(ctx, &services); err != nil {
			respondError(c, http.StatusInternalServerError, "SERVICE", "db error")
			return
		}
		respondData(c, http.StatusOK, services)
	}
}

type updateServiceRequest struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Category     *string              `json:"category"`
	Pricing      *models.Pricing      `json:"pricing"`
	PricingType  *string              `json:"pricingType"`
	WorkingHours *models.ServiceHours `json:"workingHours"`
}

// UpdateService edits the caller's own service. An ID that exists but
// belongs to another business reads as not found.
func UpdateService(db *mongo.Database, registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SERVICE")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "SERVICE", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "SERVICE", "invalid id")
			return
		}

		var req updateServiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "SERVICE", "invalid body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
			set["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
			set["category"] = strings.TrimSpace(*req.Category)
		}
		if req.Pricing != nil {
			if req.Pricing.Amount < 0 {
				respondError(c, http.StatusBadRequest, "SERVICE", "pricing amount cannot be negative")
				return
			}
			set["pricing"] = req.Pricing
		}
		if req.PricingType != nil {
			if !containsString(models.PricingTypes, *req.PricingType) {
				respondError(c, http.StatusBadRequest, "SERVICE", "invalid pricingType")
				return
			}
			set["pricingType"] = *req.PricingType
		}
		if req.WorkingHours != nil {
			set["workingHours"] = req.WorkingHours
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "SERVICE", "service not found")
			return
		}

		res, err := db.Collection("services").UpdateOne(ctx,
			bson.M{"_id": id, "business": business.ID},
			bson.M{"$set": set})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "SERVICE", "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "SERVICE", "service not found")
			return
		}

		if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
			if err := registry.AddServiceCategory(ctx, strings.TrimSpace(*req.Category)); err != nil {
				log.Println("[SERVICE] category registration failed:", err)
			}
		}
		respondMessage(c, http.StatusOK, "service updated")
	}
}

// DeleteService removes the caller's own service and drops its reference
// from the business cache.
func DeleteService(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SERVICE")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "SERVICE", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "SERVICE", "invalid id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "SERVICE", "service not found")
			return
		}

		res, err := db.Collection("services").DeleteOne(ctx,
			bson.M{"_id": id, "business": business.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "SERVICE", "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "SERVICE", "service not found")
			return
		}

		if _, err := db.Collection("businesses").UpdateByID(ctx, business.ID,
			bson.M{"$pull": bson.M{"services": id}}); err != nil {
			log.Println("[SERVICE] business cache cleanup failed:", err)
		}
		respondMessage(c, http.StatusOK, "service deleted")
	}
}
