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

// CreateMachinery publishes a machinery listing under the caller's business
// and registers its type, brand and model with the taxonomy.
func CreateMachinery(db *mongo.Database, store storage.Uploader, registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MACHINERY")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "MACHINERY", "unauthorized")
			return
		}

		name := strings.TrimSpace(c.PostForm("machine_name"))
		machineType := strings.TrimSpace(c.PostForm("machine_type"))
		condition := strings.TrimSpace(c.PostForm("condition"))
		if name == "" || machineType == "" {
			respondError(c, http.StatusBadRequest, "MACHINERY", "machine_name and machine_type are required")
			return
		}
		if condition != models.ConditionNew && condition != models.ConditionUsed && condition != models.ConditionRefurbished {
			respondError(c, http.StatusBadRequest, "MACHINERY", "invalid condition")
			return
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("price")), 64)
		if err != nil || price < 0 {
			respondError(c, http.StatusBadRequest, "MACHINERY", "price must be a non-negative number")
			return
		}

		financing := strings.TrimSpace(c.PostForm("financingOptions"))
		if financing != "" && !containsString(models.FinancingOptions, financing) {
			respondError(c, http.StatusBadRequest, "MACHINERY", "invalid financingOptions")
			return
		}

		availability := strings.TrimSpace(c.PostForm("availability"))
		if availability == "" {
			availability = models.AvailabilityInStock
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "MACHINERY", "business not found")
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, http.StatusBadRequest, "MACHINERY", "invalid form")
			return
		}
		files := form.File["machine_images"]
		if len(files) > maxListingImages {
			respondError(c, http.StatusBadRequest, "MACHINERY", "at most 5 images are allowed")
			return
		}

		images, err := uploadAll(ctx, store, files)
		if err != nil {
			log.Println("[MACHINERY] image upload failed:", err)
			respondError(c, http.StatusInternalServerError, "MACHINERY", "image upload failed")
			return
		}

		modelYear, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("model_year")))

		now := time.Now()
		sale := models.MachinerySale{
			ID:                  primitive.NewObjectID(),
			Business:            business.ID,
			MachineName:         name,
			MachineDescription:  strings.TrimSpace(c.PostForm("machine_des")),
			MachineType:         machineType,
			Condition:           condition,
			Brand:               strings.TrimSpace(c.PostForm("brand")),
			Model:               strings.TrimSpace(c.PostForm("model")),
			ModelYear:           modelYear,
			FixedPrice:          parseFormBool(c.PostForm("fixed_price")),
			NegotiablePrice:     parseFormBool(c.PostForm("negotiable_price")),
			Price:               price,
			Currency:            currencyOrDefault(c.PostForm("currency")),
			LocationCountry:     strings.TrimSpace(c.PostForm("location_country")),
			LocationCity:        strings.TrimSpace(c.PostForm("location_city")),
			Images:              images,
			FuelType:            strings.TrimSpace(c.PostForm("fuelType")),
			Power:               parseFormMeasure(c, "power"),
			Dimensions:          strings.TrimSpace(c.PostForm("dimensions")),
			ProductionCapacity:  parseFormMeasure(c, "productionCapacity"),
			Weight:              parseFormMeasure(c, "weight"),
			Availability:        availability,
			Warranty:            parseFormMeasure(c, "warranty"),
			FinancingOptions:    financing,
			AfterSalesService:   parseFormBool(c.PostForm("after_sales_service")),
			AccessoriesIncluded: parseFormBool(c.PostForm("accessories_included")),
			SparePartsAvailable: parseFormBool(c.PostForm("spare_parts_available")),
			Reviews:             []models.Review{},
			Status:              models.StatusPending,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		if _, err := db.Collection("businesses").UpdateByID(ctx, business.ID,
			bson.M{"$push": bson.M{"machines": sale.ID}}); err != nil {
			respondError(c, http.StatusInternalServerError, "MACHINERY", "db error")
			return
		}
		if _, err := db.Collection("machinerysales").InsertOne(ctx, sale); err != nil {
			respondError(c, http.StatusInternalServerError, "MACHINERY", "db error")
			return
		}

		if err := registry.AddMachine(ctx, machineType, sale.Brand, sale.Model); err != nil {
			log.Println("[MACHINERY] taxonomy registration failed:", err)
		}

		respondData(c, http.StatusCreated, sale)
	}
}

// SearchMachinery runs the faceted machinery search over approved listings.
func SearchMachinery(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MACHINERY")

		q, err := search.Build(search.Machinery(), c.Request.URL.Query())
		if err != nil {
			respondError(c, http.StatusBadRequest, "MACHINERY", err.Error())
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		results, page, err := search.Run(ctx, db.Collection("machinerysales"), q)
		if err != nil {
			log.Println("[MACHINERY] search failed:", err)
			respondError(c, http.StatusInternalServerError, "MACHINERY", "search failed")
			return
		}
		respondPage(c, results, page)
	}
}

// GetMachinery returns one machinery listing by ID.
func GetMachinery(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MACHINERY")

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "MACHINERY", "invalid id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var sale models.MachinerySale
		if err := db.Collection("machinerysales").FindOne(ctx, bson.M{"_id": id}).Decode(&sale); err != nil {
			respondError(c, http.StatusNotFound, "MACHINERY", "machinery not found")
			return
		}
		respondData(c, http.StatusOK, sale)
	}
}

// MyMachines lists the caller's own machinery listings.
func MyMachines(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MACHINERY")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "MACHINERY", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "MACHINERY", "business not found")
			return
		}

		cursor, err := db.Collection("machinerysales").Find(ctx, bson.M{"business": business.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "MACHINERY", "db error")
			return
		}
		defer cursor.Close(ctx)

		sales := []models.MachinerySale{}
		if err := cursor.All(ctx, &sales); err != nil {
			respondError(c, http.StatusInternalServerError, "MACHINERY", "db error")
			return
		}
		respondData(c, http.StatusOK, sales)
	}
}

// UpdateMachinery applies a partial JSON update to the caller's own listing.
func UpdateMachinery(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MACHINERY")
		updateOwnedListing(c, db, "machinerysales", "business", machineryUpdatableFields)
	}
}

// DeleteMachinery removes the caller's listing and its business cache entry.
func DeleteMachinery(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "MACHINERY")
		deleteOwnedListing(c, db, "machinerysales", "business", "machines")
	}
}

var machineryUpdatableFields = map[string]bool{
	"machine_name": true, "machine_des": true, "machine_type": true,
	"condition": true, "brand": true, "model": true, "model_year": true,
	"fixed_price": true, "negotiable_price": true, "price": true,
	"currency": true, "location_country": true, "location_city": true,
	"fuelType": true, "power": true, "dimensions": true,
	"productionCapacity": true, "weight": true, "availability": true,
	"warranty": true, "financingOptions": true, "after_sales_service": true,
	"accessories_included": true, "spare_parts_available": true,
}

func parseFormBool(raw string) bool {
	raw = strings.TrimSpace(raw)
	return strings.EqualFold(raw, "true") || strings.EqualFold(raw, "yes")
}

func parseFormMeasure(c *gin.Context, field string) models.Measure {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(c.PostForm(field+"Amount")), 64)
	return models.Measure{
		Amount: amount,
		Unit:   strings.TrimSpace(c.PostForm(field + "Unit")),
	}
}

func currencyOrDefault(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return "DZD"
}
