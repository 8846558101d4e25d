package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureBusinessIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("location_2dsphere"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("user_index"),
		},
		{
			Keys:    bson.D{{Key: "businessType", Value: 1}, {Key: "years_of_experience", Value: 1}},
			Options: options.Index().SetName("type_experience"),
		},
		{
			Keys:    bson.D{{Key: "certifications", Value: 1}},
			Options: options.Index().SetName("certifications_index"),
		},
	}

	_, err := db.Collection("businesses").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureBusinessIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureServiceIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("location_2dsphere"),
		},
		{
			Keys:    bson.D{{Key: "business", Value: 1}},
			Options: options.Index().SetName("business_index"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "pricing.amount", Value: 1}},
			Options: options.Index().SetName("category_price"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
	}

	_, err := db.Collection("services").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureServiceIndexes: index error:", err)
		return err
	}
	return nil
}

// EnsureListingIndexes covers the owner-reference and sort fields shared by
// machinery, spare part, and raw material collections.
func EnsureListingIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	owners := map[string]string{
		"machinerysales": "business",
		"spareparts":     "supplier",
		"rawmaterials":   "supplier",
	}

	for collection, owner := range owners {
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: owner, Value: 1}},
				Options: options.Index().SetName(owner + "_index"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_desc"),
			},
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			log.Printf("EnsureListingIndexes: %s index error: %v", collection, err)
			return err
		}
	}
	return nil
}

func EnsureBookingIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("user_status"),
	}

	_, err := db.Collection("bookings").Indexes().CreateOne(ctx, userIndex)
	if err != nil {
		log.Println("EnsureBookingIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	_, err := db.Collection("orders").Indexes().CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: userId index error:", err)
		return err
	}
	return nil
}
