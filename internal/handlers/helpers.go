package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greenova/internal/middleware"
	"greenova/internal/models"
	"greenova/internal/search"
)

// currentUserID reads the authenticated user's ID set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// businessByUser resolves the caller's business profile. Providers own at
// most one business, so the user ref is a unique lookup key.
func businessByUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (*models.Business, error) {
	var business models.Business
	err := db.Collection("businesses").FindOne(ctx, bson.M{"user": userID}).Decode(&business)
	if err != nil {
		return nil, err
	}
	return &business, nil
}

var errBadPagination = errors.New("invalid pagination parameters")

// parsePaginationParams reads page/limit query values, falling back to the
// first page of 20. Non-numeric, zero and negative values are rejected.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page, limit := search.DefaultPage, search.DefaultLimit

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errBadPagination
		}
		page = p
	}
	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errBadPagination
		}
		limit = l
	}
	return page, limit, nil
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
