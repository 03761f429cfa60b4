package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/princinho/storefront-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// SeedAdminUser upserts the configured admin account on startup.
func SeedAdminUser(ctx context.Context, usersCol *mongo.Collection, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, fmt.Errorf("missing ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()

	// Only insert if it doesn't exist
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         "Administrator",
			"email":        email,
			"passwordHash": hash,
			"role":         models.RoleAdmin,
			"isActive":     true,
			"cart":         bson.M{},
			"orders":       bson.A{},
			"addresses":    bson.A{},
			"notificationPrefs": bson.M{
				"orderEmails": true,
				"promoEmails": false,
			},
			"createdAt": now,
			"updatedAt": now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)
	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("seed admin upsert failed: %w", err)
	}

	return res.UpsertedCount == 1, nil
}
