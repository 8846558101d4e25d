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

// CreateSparePart publishes a spare-part listing and registers its category
// tree (with compatible brands and models) in the taxonomy.
func CreateSparePart(db *mongo.Database, store storage.Uploader, registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SPAREPART")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "SPAREPART", "unauthorized")
			return
		}

		category := strings.TrimSpace(c.PostForm("partCategory"))
		subCategory := strings.TrimSpace(c.PostForm("subCategory"))
		if category == "" {
			respondError(c, http.StatusBadRequest, "SPAREPART", "partCategory is required")
			return
		}

		condition := strings.TrimSpace(c.PostForm("condition"))
		if condition != models.ConditionNew && condition != models.ConditionUsed && condition != models.ConditionRefurbished {
			respondError(c, http.StatusBadRequest, "SPAREPART", "invalid condition")
			return
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("price")), 64)
		if err != nil || price < 0 {
			respondError(c, http.StatusBadRequest, "SPAREPART", "price must be a non-negative number")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "SPAREPART", "business not found")
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, http.StatusBadRequest, "SPAREPART", "invalid form")
			return
		}
		files := form.File["spareParts_images"]
		if len(files) > maxListingImages {
			respondError(c, http.StatusBadRequest, "SPAREPART", "at most 5 images are allowed")
			return
		}

		images, err := uploadAll(ctx, store, files)
		if err != nil {
			log.Println("[SPAREPART] image upload failed:", err)
			respondError(c, http.StatusInternalServerError, "SPAREPART", "image upload failed")
			return
		}

		brands := splitFormList(c.PostForm("compatibleBrands"))
		modelNames := splitFormList(c.PostForm("compatibleModels"))
		warrantyAmount, _ := strconv.ParseFloat(strings.TrimSpace(c.PostForm("warrantyAmount")), 64)

		now := time.Now()
		part := models.SparePart{
			ID:                     primitive.NewObjectID(),
			Supplier:               business.ID,
			PartCategory:           category,
			SubCategory:            subCategory,
			Description:            strings.TrimSpace(c.PostForm("description")),
			CompatibleBrands:       models.StringList(brands),
			CompatibleModels:       models.StringList(modelNames),
			Condition:              condition,
			FixedPrice:             parseFormBool(c.PostForm("fixedPrice")),
			NegotiablePrice:        parseFormBool(c.PostForm("negotiablePrice")),
			Price:                  price,
			Currency:               currencyOrDefault(c.PostForm("currency")),
			Images:                 images,
			LocationCountry:        strings.TrimSpace(c.PostForm("locationCountry")),
			LocationCity:           strings.TrimSpace(c.PostForm("locationCity")),
			Availability:           strings.TrimSpace(c.PostForm("availability")),
			Warranty:               models.Measure{Amount: warrantyAmount, Unit: strings.TrimSpace(c.PostForm("warrantyUnit"))},
			BulkDiscountsAvailable: parseFormBool(c.PostForm("bulkDiscountsAvailable")),
			BulkDiscounts:          strings.TrimSpace(c.PostForm("bulkDiscounts")),
			Status:                 models.StatusApproved,
			CreatedAt:              now,
			UpdatedAt:              now,
		}

		if _, err := db.Collection("businesses").UpdateByID(ctx, business.ID,
			bson.M{"$push": bson.M{"spareParts": part.ID}}); err != nil {
			respondError(c, http.StatusInternalServerError, "SPAREPART", "db error")
			return
		}
		if _, err := db.Collection("spareparts").InsertOne(ctx, part); err != nil {
			respondError(c, http.StatusInternalServerError, "SPAREPART", "db error")
			return
		}

		if err := registry.AddSparePartCategory(ctx, category, subCategory, brands, modelNames); err != nil {
			log.Println("[SPAREPART] taxonomy registration failed:", err)
		}

		respondData(c, http.StatusCreated, part)
	}
}

// SearchSpareParts runs the faceted spare-part search.
func SearchSpareParts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SPAREPART")

		q, err := search.Build(search.SpareParts(), c.Request.URL.Query())
		if err != nil {
			respondError(c, http.StatusBadRequest, "SPAREPART", err.Error())
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		results, page, err := search.Run(ctx, db.Collection("spareparts"), q)
		if err != nil {
			log.Println("[SPAREPART] search failed:", err)
			respondError(c, http.StatusInternalServerError, "SPAREPART", "search failed")
			return
		}
		respondPage(c, results, page)
	}
}

// GetSparePart returns one spare-part listing by ID.
func GetSparePart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SPAREPART")

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "SPAREPART", "invalid id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var part models.SparePart
		if err := db.Collection("spareparts").FindOne(ctx, bson.M{"_id": id}).Decode(&part); err != nil {
			respondError(c, http.StatusNotFound, "SPAREPART", "spare part not found")
			return
		}
		respondData(c, http.StatusOK, part)
	}
}

// MySpareParts lists the caller's own spare-part listings.
func MySpareParts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SPAREPART")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "SPAREPART", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "SPAREPART", "business not found")
			return
		}

		cursor, err := db.Collection("spareparts").Find(ctx, bson.M{"supplier": business.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "SPAREPART", "db error")
			return
		}
		defer cursor.Close(ctx)

		parts := []models.SparePart{}
		if err := cursor.All(ctx, &parts); err != nil {
			respondError(c, http.StatusInternalServerError, "SPAREPART", "db error")
			return
		}
		respondData(c, http.StatusOK, parts)
	}
}

// UpdateSparePart applies a partial JSON update to the caller's own listing.
func UpdateSparePart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SPAREPART")
		updateOwnedListing(c, db, "spareparts", "supplier", sparePartUpdatableFields)
	}
}

// DeleteSparePart removes the caller's listing and its business cache entry.
func DeleteSparePart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "SPAREPART")
		deleteOwnedListing(c, db, "spareparts", "supplier", "spareParts")
	}
}

var sparePartUpdatableFields = map[string]bool{
	"partCategory": true, "subCategory": true, "description": true,
	"compatibleBrands": true, "compatibleModels": true, "condition": true,
	"fixedPrice": true, "negotiablePrice": true, "price": true,
	"currency": true, "locationCountry": true, "locationCity": true,
	"availability": true, "warranty": true,
	"bulkDiscountsAvailable": true, "bulkDiscounts": true,
}
