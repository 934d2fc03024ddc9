// server/internal/database/seeder.go
package database

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pnt-health-station-api-server/internal/auth"
	"pnt-health-station-api-server/internal/models"
)

// SeedAdmin đảm bảo luôn có ít nhất một tài khoản ADMIN để quản trị.
// Chỉ chạy khi email admin chưa tồn tại; không bao giờ ghi đè.
func SeedAdmin(db *mongo.Database, email, password string) error {
	if email == "" || password == "" {
		log.Println("Admin seed skipped: no admin credentials configured.")
		return nil
	}

	userCollection := db.Collection("users")

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    email,
		Name:     "Quản trị viên",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		Unit:     "Trạm Y tế",
	}
	if _, err := userCollection.InsertOne(context.Background(), admin); err != nil {
		return err
	}

	log.Println("Admin seeded successfully.")
	return nil
}
