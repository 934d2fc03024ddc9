package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

func (s *Store) GetUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.Collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"name":  user.Name,
		"role":  user.Role,
		"phone": user.Phone,
		"unit":  user.Unit,
	}}
	// Password chỉ ghi khi có giá trị, tránh xóa hash cũ khi cập nhật hồ sơ.
	if user.Password != "" {
		update["$set"].(bson.M)["password"] = user.Password
	}
	_, err := s.DB.Collection(collUsers).UpdateOne(ctx,
		bson.M{"email": user.Email},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.DB.Collection(collUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
