package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greenova/internal/models"
	"greenova/internal/search"
	"greenova/internal/storage"
	"greenova/internal/taxonomy"
)

const nearByRadiusMeters = 5000

var errInvalidCoordinates = errors.New("invalid coordinates")

// CreateBusiness registers the provider's business profile. A provider owns
// at most one business; the logo file is mandatory.
func CreateBusiness(db *mongo.Database, store storage.Uploader, registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BUSINESS")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "BUSINESS", "unauthorized")
			return
		}

		businessName := strings.TrimSpace(c.PostForm("businessName"))
		if businessName == "" {
			respondError(c, http.StatusBadRequest, "BUSINESS", "businessName is required")
			return
		}

		logoHeader, err := c.FormFile("logo")
		if err != nil {
			respondError(c, http.StatusBadRequest, "BUSINESS", "logo image is required")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if existing, err := businessByUser(ctx, db, userID); err == nil && existing != nil {
			respondError(c, http.StatusConflict, "BUSINESS", "business already exists for this account")
			return
		} else if err != nil && err != mongo.ErrNoDocuments {
			respondError(c, http.StatusInternalServerError, "BUSINESS", "db error")
			return
		}

		businessType := strings.TrimSpace(c.PostForm("businessType"))
		if businessType != "" && !containsString(models.BusinessTypes, businessType) {
			respondError(c, http.StatusBadRequest, "BUSINESS", "invalid businessType")
			return
		}
		expertiseLevel := strings.TrimSpace(c.PostForm("expertise_level"))
		if expertiseLevel != "" && !containsString(models.ExpertiseLevels, expertiseLevel) {
			respondError(c, http.StatusBadRequest, "BUSINESS", "invalid expertise_level")
			return
		}

		years, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("years_of_experience")))

		location, err := parseCoordinates(c.PostForm("longitude"), c.PostForm("latitude"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "BUSINESS", err.Error())
			return
		}

		logo, err := uploadOne(ctx, store, logoHeader)
		if err != nil {
			log.Println("[BUSINESS] logo upload failed:", err)
			respondError(c, http.StatusInternalServerError, "BUSINESS", "image upload failed")
			return
		}

		banner := ""
		if header, err := c.FormFile("banner"); err == nil {
			banner, err = uploadOne(ctx, store, header)
			if err != nil {
				log.Println("[BUSINESS] banner upload failed:", err)
				respondError(c, http.StatusInternalServerError, "BUSINESS", "image upload failed")
				return
			}
		}

		certifications := splitFormList(c.PostForm("certifications"))

		now := time.Now()
		business := models.Business{
			User:              userID,
			Services:          []primitive.ObjectID{},
			Machines:          []primitive.ObjectID{},
			SpareParts:        []primitive.ObjectID{},
			RawMaterials:      []primitive.ObjectID{},
			BusinessName:      businessName,
			BusinessType:      businessType,
			YearsOfExperience: years,
			ExpertiseLevel:    expertiseLevel,
			Description:       strings.TrimSpace(c.PostForm("description")),
			Logo:              logo,
			Banner:            banner,
			Location:          location,
			ContactInfo: models.ContactInfo{
				PhoneNumbers:  splitFormList(c.PostForm("phoneNumbers")),
				Website:       strings.TrimSpace(c.PostForm("website")),
				BusinessEmail: strings.TrimSpace(c.PostForm("businessEmail")),
			},
			Certifications: models.StringList(certifications),
			WorkingHours:   strings.TrimSpace(c.PostForm("workingHours")),
			Availability:   strings.TrimSpace(c.PostForm("availability")),
			Reviews:        []models.Review{},
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := db.Collection("businesses").InsertOne(ctx, business)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "BUSINESS", "db error")
			return
		}
		business.ID, _ = res.InsertedID.(primitive.ObjectID)

		if len(certifications) > 0 {
			if err := registry.AddCertifications(ctx, certifications); err != nil {
				log.Println("[BUSINESS] certification registration failed:", err)
			}
		}

		respondData(c, http.StatusCreated, business)
	}
}

// SearchBusinesses runs the faceted business directory search.
func SearchBusinesses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BUSINESS")

		q, err := search.Build(search.Businesses(), c.Request.URL.Query())
		if err != nil {
			respondError(c, http.StatusBadRequest, "BUSINESS", err.Error())
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		results, page, err := search.Run(ctx, db.Collection("businesses"), q)
		if err != nil {
			log.Println("[BUSINESS] search failed:", err)
			respondError(c, http.StatusInternalServerError, "BUSINESS", "search failed")
			return
		}
		respondPage(c, results, page)
	}
}

// NearByBusinesses lists businesses within five kilometers of the given
// point, nearest first.
func NearByBusinesses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BUSINESS")

		lat, err1 := strconv.ParseFloat(strings.TrimSpace(c.Query("latitude")), 64)
		lng, err2 := strconv.ParseFloat(strings.TrimSpace(c.Query("longitude")), 64)
		if err1 != nil || err2 != nil {
			respondError(c, http.StatusBadRequest, "BUSINESS", "latitude and longitude are required")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		filter := bson.M{
			"location": bson.M{
				"$near": bson.M{
					"$geometry":    models.NewGeoPoint(lng, lat),
					"$maxDistance": nearByRadiusMeters,
				},
			},
		}

		cursor, err := db.Collection("businesses").Find(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "BUSINESS", "db error")
			return
		}
		defer cursor.Close(ctx)

		businesses := []models.Business{}
		if err := cursor.All(ctx, &businesses); err != nil {
			respondError(c, http.StatusInternalServerError, "BUSINESS", "db error")
			return
		}
		if len(businesses) == 0 {
			respondError(c, http.StatusNotFound, "BUSINESS", "no businesses found nearby")
			return
		}
		respondData(c, http.StatusOK, businesses)
	}
}

// BusinessProfile returns the caller's own business.
func BusinessProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BUSINESS")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "BUSINESS", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "BUSINESS", "business not found")
			return
		}
		respondData(c, http.StatusOK, business)
	}
}

type updateBusinessRequest struct {
	BusinessName      *string             `json:"businessName"`
	BusinessType      *string             `json:"businessType"`
	YearsOfExperience *int                `json:"years_of_experience"`
	ExpertiseLevel    *string             `json:"expertise_level"`
	Description       *string             `json:"description"`
	WorkingHours      *string             `json:"workingHours"`
	Availability      *string             `json:"availability"`
	Longitude         *float64            `json:"longitude"`
	Latitude          *float64            `json:"latitude"`
	ContactInfo       *models.ContactInfo `json:"contact_info"`
	Certifications    []string            `json:"certifications"`
}

// UpdateBusiness applies a partial update to the caller's business. Unknown
// fields are ignored rather than persisted.
func UpdateBusiness(db *mongo.Database, registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BUSINESS")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "BUSINESS", "unauthorized")
			return
		}

		var req updateBusinessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "BUSINESS", "invalid body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.BusinessName != nil && strings.TrimSpace(*req.BusinessName) != "" {
			set["businessName"] = strings.TrimSpace(*req.BusinessName)
		}
		if req.BusinessType != nil {
			if !containsString(models.BusinessTypes, *req.BusinessType) {
				respondError(c, http.StatusBadRequest, "BUSINESS", "invalid businessType")
				return
			}
			set["businessType"] = *req.BusinessType
		}
		if req.YearsOfExperience != nil {
			if *req.YearsOfExperience < 0 {
				respondError(c, http.StatusBadRequest, "BUSINESS", "years_of_experience cannot be negative")
				return
			}
			set["years_of_experience"] = *req.YearsOfExperience
		}
		if req.ExpertiseLevel != nil {
			if !containsString(models.ExpertiseLevels, *req.ExpertiseLevel) {
				respondError(c, http.StatusBadRequest, "BUSINESS", "invalid expertise_level")
				return
			}
			set["expertise_level"] = *req.ExpertiseLevel
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.WorkingHours != nil {
			set["workingHours"] = *req.WorkingHours
		}
		if req.Availability != nil {
			set["availability"] = *req.Availability
		}
		if req.Longitude != nil || req.Latitude != nil {
			if req.Longitude == nil || req.Latitude == nil {
				respondError(c, http.StatusBadRequest, "BUSINESS", "longitude and latitude must be provided together")
				return
			}
			if *req.Longitude < -180 || *req.Longitude > 180 || *req.Latitude < -90 || *req.Latitude > 90 {
				respondError(c, http.StatusBadRequest, "BUSINESS", "coordinates out of range")
				return
			}
			set["location"] = models.NewGeoPoint(*req.Longitude, *req.Latitude)
		}
		if req.ContactInfo != nil {
			// merge per field so an update never wipes the rest of the block
			if len(req.ContactInfo.PhoneNumbers) > 0 {
				set["contact_info.phoneNumbers"] = req.ContactInfo.PhoneNumbers
			}
			if req.ContactInfo.Website != "" {
				set["contact_info.website"] = req.ContactInfo.Website
			}
			if req.ContactInfo.BusinessEmail != "" {
				set["contact_info.businessEmail"] = req.ContactInfo.BusinessEmail
			}
			if req.ContactInfo.Facebook != "" {
				set["contact_info.facebook"] = req.ContactInfo.Facebook
			}
			if req.ContactInfo.Instagram != "" {
				set["contact_info.instagram"] = req.ContactInfo.Instagram
			}
			if req.ContactInfo.LinkedIn != "" {
				set["contact_info.linkedin"] = req.ContactInfo.LinkedIn
			}
			if req.ContactInfo.YouTube != "" {
				set["contact_info.youtube"] = req.ContactInfo.YouTube
			}
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		update := bson.M{"$set": set}
		if len(req.Certifications) > 0 {
			update["$addToSet"] = bson.M{"certifications": bson.M{"$each": req.Certifications}}
		}

		var business models.Business
		err := db.Collection("businesses").FindOneAndUpdate(ctx,
			bson.M{"user": userID},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&business)
		if err != nil {
			respondError(c, http.StatusNotFound, "BUSINESS", "business not found")
			return
		}

		if len(req.Certifications) > 0 {
			if err := registry.AddCertifications(ctx, req.Certifications); err != nil {
				log.Println("[BUSINESS] certification registration failed:", err)
			}
		}
		respondData(c, http.StatusOK, business)
	}
}

// DeleteBusiness removes the caller's business and every listing it owns.
// Listings carry their own owner field, so the cascade filters on that rather
// than the parent's cached ID arrays.
func DeleteBusiness(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "BUSINESS")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "BUSINESS", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		business, err := businessByUser(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusNotFound, "BUSINESS", "business not found")
			return
		}

		owned := bson.M{"business": business.ID}
		supplied := bson.M{"supplier": business.ID}
		for col, filter := range map[string]bson.M{
			"services":       owned,
			"machinerysales": owned,
			"spareparts":     supplied,
			"rawmaterials":   supplied,
		} {
			if _, err := db.Collection(col).DeleteMany(ctx, filter); err != nil {
				log.Printf("[BUSINESS] cascade delete of %s failed: %v", col, err)
				respondError(c, http.StatusInternalServerError, "BUSINESS", "db error")
				return
			}
		}

		if _, err := db.Collection("businesses").DeleteOne(ctx, bson.M{"_id": business.ID}); err != nil {
			respondError(c, http.StatusInternalServerError, "BUSINESS", "db error")
			return
		}

		log.Println("[BUSINESS] business deleted:", business.ID.Hex())
		respondMessage(c, http.StatusOK, "business deleted")
	}
}

func parseCoordinates(lngStr, latStr string) (*models.GeoPoint, error) {
	lngStr = strings.TrimSpace(lngStr)
	latStr = strings.TrimSpace(latStr)
	if lngStr == "" && latStr == "" {
		return nil, nil
	}

	lng, err1 := strconv.ParseFloat(lngStr, 64)
	lat, err2 := strconv.ParseFloat(latStr, 64)
	if err1 != nil || err2 != nil {
		return nil, errInvalidCoordinates
	}
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return nil, errInvalidCoordinates
	}

	point := models.NewGeoPoint(lng, lat)
	return &point, nil
}

func splitFormList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
