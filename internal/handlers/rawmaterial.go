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

// CreateRawMaterial publishes a raw-material listing and registers its
// category and subcategory in the taxonomy.
func CreateRawMaterial(db *mongo.Database, store storage.Uploader, registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "RAWMATERIAL")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "RAWMATERIAL", "unauthorized")
			return
		}

		category := strings.TrimSpace(c.PostForm("materialCategory"))
		subCategory := strings.TrimSpace(c.PostForm("materialSubCategory"))
		if category == "" {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", "materialCategory is required")
			return
		}

		standard := strings.TrimSpace(c.PostForm("industrialStandards"))
		if standard != "" && !containsString(models.IndustrialStandards, standard) {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", "invalid industrialStandards")
			return
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("priceAmount")), 64)
		if err != nil || amount < 0 {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", "priceAmount must be a non-negative number")
			return
		}

		availability := strings.TrimSpace(c.PostForm("availability"))
		if availability != "" && availability != models.AvailabilityInStock && availability != models.AvailabilityOnOrder {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", "invalid availability")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "RAWMATERIAL", "business not found")
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", "invalid form")
			return
		}
		files := form.File["material_images"]
		if len(files) > maxListingImages {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", "at most 5 images are allowed")
			return
		}

		images, err := uploadAll(ctx, store, files)
		if err != nil {
			log.Println("[RAWMATERIAL] image upload failed:", err)
			respondError(c, http.StatusInternalServerError, "RAWMATERIAL", "image upload failed")
			return
		}

		purity, _ := strconv.ParseFloat(strings.TrimSpace(c.PostForm("purityLevel")), 64)

		now := time.Now()
		material := models.RawMaterial{
			ID:                  primitive.NewObjectID(),
			Supplier:            business.ID,
			MaterialCategory:    category,
			MaterialSubCategory: subCategory,
			Description:         strings.TrimSpace(c.PostForm("description")),
			Shapes:              strings.TrimSpace(c.PostForm("shapes")),
			IndustrialStandards: standard,
			PurityLevel:         purity,
			Dimensions:          strings.TrimSpace(c.PostForm("dimensions")),
			Quantity: models.Quantity{
				Amount: strings.TrimSpace(c.PostForm("quantityAmount")),
				Unit:   strings.TrimSpace(c.PostForm("quantityUnit")),
			},
			FixedPrice:             parseFormBool(c.PostForm("fixedPrice")),
			NegotiablePrice:        parseFormBool(c.PostForm("negotiablePrice")),
			Price:                  models.Pricing{Amount: amount, Unit: strings.TrimSpace(c.PostForm("priceUnit"))},
			Currency:               currencyOrDefault(c.PostForm("currency")),
			Images:                 images,
			LocationCountry:        strings.TrimSpace(c.PostForm("locationCountry")),
			LocationCity:           strings.TrimSpace(c.PostForm("locationCity")),
			Availability:           availability,
			BulkDiscountsAvailable: parseFormBool(c.PostForm("bulkDiscountsAvailable")),
			Status:                 models.StatusApproved,
			CreatedAt:              now,
			UpdatedAt:              now,
		}

		if _, err := db.Collection("businesses").UpdateByID(ctx, business.ID,
			bson.M{"$push": bson.M{"rawMaterials": material.ID}}); err != nil {
			respondError(c, http.StatusInternalServerError, "RAWMATERIAL", "db error")
			return
		}
		if _, err := db.Collection("rawmaterials").InsertOne(ctx, material); err != nil {
			respondError(c, http.StatusInternalServerError, "RAWMATERIAL", "db error")
			return
		}

		if err := registry.AddRawMaterialCategory(ctx, category, subCategory); err != nil {
			log.Println("[RAWMATERIAL] taxonomy registration failed:", err)
		}

		respondData(c, http.StatusCreated, material)
	}
}

// SearchRawMaterials runs the faceted raw-material search.
func SearchRawMaterials(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "RAWMATERIAL")

		q, err := search.Build(search.RawMaterials(), c.Request.URL.Query())
		if err != nil {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", err.Error())
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		results, page, err := search.Run(ctx, db.Collection("rawmaterials"), q)
		if err != nil {
			log.Println("[RAWMATERIAL] search failed:", err)
			respondError(c, http.StatusInternalServerError, "RAWMATERIAL", "search failed")
			return
		}
		respondPage(c, results, page)
	}
}

// GetRawMaterial returns one raw-material listing by ID.
func GetRawMaterial(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "RAWMATERIAL")

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "RAWMATERIAL", "invalid id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var material models.RawMaterial
		if err := db.Collection("rawmaterials").FindOne(ctx, bson.M{"_id": id}).Decode(&material); err != nil {
			respondError(c, http.StatusNotFound, "RAWMATERIAL", "raw material not found")
			return
		}
		respondData(c, http.StatusOK, material)
	}
}

// MyRawMaterials lists the caller's own raw-material listings.
func MyRawMaterials(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "RAWMATERIAL")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "RAWMATERIAL", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "RAWMATERIAL", "business not found")
			return
		}

		cursor, err := db.Collection("rawmaterials").Find(ctx, bson.M{"supplier": business.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "RAWMATERIAL", "db error")
			return
		}
		defer cursor.Close(ctx)

		materials := []models.RawMaterial{}
		if err := cursor.All(ctx, &materials); err != nil {
			respondError(c, http.StatusInternalServerError, "RAWMATERIAL", "db error")
			return
		}
		respondData(c, http.StatusOK, materials)
	}
}

// UpdateRawMaterial applies a partial JSON update to the caller's own listing.
func UpdateRawMaterial(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "RAWMATERIAL")
		updateOwnedListing(c, db, "rawmaterials", "supplier", rawMaterialUpdatableFields)
	}
}

// DeleteRawMaterial removes the caller's listing and its business cache entry.
func DeleteRawMaterial(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "RAWMATERIAL")
		deleteOwnedListing(c, db, "rawmaterials", "supplier", "rawMaterials")
	}
}

var rawMaterialUpdatableFields = map[string]bool{
	"materialCategory": true, "materialSubCategory": true, "description": true,
	"shapes": true, "industrialStandards": true, "purityLevel": true,
	"dimensions": true, "quantity": true, "fixedPrice": true,
	"negotiablePrice": true, "price": true, "currency": true,
	"locationCountry": true, "locationCity": true, "availability": true,
	"bulkDiscountsAvailable": true,
}
