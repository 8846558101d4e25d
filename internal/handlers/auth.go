package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"greenova/internal/models"
	"greenova/internal/storage"
)

// Register creates a user account from a multipart form. The profile picture
// is optional; everything else is plain form fields.
func Register(db *mongo.Database, store storage.Uploader, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		fullName := strings.TrimSpace(c.PostForm("fullName"))
		email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
		password := c.PostForm("password")
		phoneNumber := strings.TrimSpace(c.PostForm("phoneNumber"))
		userType := strings.TrimSpace(c.PostForm("userType"))

		if fullName == "" || email == "" || password == "" {
			respondError(c, http.StatusBadRequest, "AUTH", "fullName, email and password are required")
			return
		}

		age, err := strconv.Atoi(strings.TrimSpace(c.PostForm("age")))
		if err != nil || age <= 19 {
			respondError(c, http.StatusBadRequest, "AUTH", "age must be above 19")
			return
		}

		if userType == "" {
			userType = models.RoleUser
		}
		if userType != models.RoleUser && userType != models.RoleProvider {
			respondError(c, http.StatusBadRequest, "AUTH", "invalid userType")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "AUTH", "db error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, "AUTH", "email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "AUTH", "password hash failed")
			return
		}

		profilePicture := ""
		if header, err := c.FormFile("profilePicture"); err == nil {
			profilePicture, err = uploadOne(ctx, store, header)
			if err != nil {
				log.Println("[AUTH] profile picture upload failed:", err)
				respondError(c, http.StatusInternalServerError, "AUTH", "image upload failed")
				return
			}
		}

		now := time.Now()
		user := models.User{
			FullName:       fullName,
			Email:          email,
			PasswordHash:   string(hash),
			ProfilePicture: profilePicture,
			Age:            age,
			PhoneNumber:    phoneNumber,
			UserType:       userType,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "AUTH", "email already registered")
				return
			}
			respondError(c, http.StatusInternalServerError, "AUTH", "db error")
			return
		}
		user.ID, _ = res.InsertedID.(primitive.ObjectID)

		token, err := issueToken(user, jwtSecret, accessTTL)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "AUTH", "token generation failed")
			return
		}

		log.Println("[AUTH] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": user, "token": token})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType"`
}

// Login authenticates by email and password. When the client sends a
// userType it must match the stored role, so a provider app cannot log a
// plain user into its dashboard.
func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "AUTH", "email and password are required")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := dbCtx(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			respondError(c, http.StatusUnauthorized, "AUTH", "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, http.StatusUnauthorized, "AUTH", "invalid credentials")
			return
		}

		if req.UserType != "" && req.UserType != user.UserType {
			respondError(c, http.StatusUnauthorized, "AUTH", "invalid credentials")
			return
		}

		token, err := issueToken(user, jwtSecret, accessTTL)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "AUTH", "token generation failed")
			return
		}

		log.Println("[AUTH] login succeeded:", email)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": user, "token": token})
	}
}

// Logout is stateless; tokens simply expire. The endpoint exists so clients
// have a uniform call to clear their session against.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondMessage(c, http.StatusOK, "logged out")
	}
}

// Me returns the authenticated user's account.
func Me(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "AUTH", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, "AUTH", "user not found")
			return
		}
		respondData(c, http.StatusOK, user)
	}
}

// EditProfile updates the caller's profile from a multipart form. Only the
// provided fields change.
func EditProfile(db *mongo.Database, store storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "AUTH", "unauthorized")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		set := bson.M{"updatedAt": time.Now()}
		if v := strings.TrimSpace(c.PostForm("fullName")); v != "" {
			set["fullName"] = v
		}
		if v := strings.TrimSpace(c.PostForm("phoneNumber")); v != "" {
			set["phoneNumber"] = v
		}
		if v := strings.TrimSpace(c.PostForm("age")); v != "" {
			age, err := strconv.Atoi(v)
			if err != nil || age <= 19 {
				respondError(c, http.StatusBadRequest, "AUTH", "age must be above 19")
				return
			}
			set["age"] = age
		}
		if header, err := c.FormFile("profilePicture"); err == nil {
			url, err := uploadOne(ctx, store, header)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "AUTH", "image upload failed")
				return
			}
			set["profilePicture"] = url
		}

		var user models.User
		err := db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": userID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err != nil {
			respondError(c, http.StatusNotFound, "AUTH", "user not found")
			return
		}
		respondData(c, http.StatusOK, user)
	}
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword verifies the old password before swapping in the new hash.
func ChangePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "AUTH")

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "AUTH", "unauthorized")
			return
		}

		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "AUTH", "oldPassword and newPassword (min 8 chars) are required")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, "AUTH", "user not found")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			respondError(c, http.StatusUnauthorized, "AUTH", "incorrect password")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "AUTH", "password hash failed")
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "AUTH", "db error")
			return
		}
		respondMessage(c, http.StatusOK, "password updated")
	}
}

func issueToken(user models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId":   user.ID.Hex(),
		"email":    user.Email,
		"userType": user.UserType,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
