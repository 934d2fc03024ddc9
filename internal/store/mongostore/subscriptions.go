package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pnt-health-station-api-server/internal/models"
)

func (s *Store) AddSubscription(ctx context.Context, sub *models.PushSubscription) error {
	// Upsert theo endpoint: đăng ký lại từ cùng một thiết bị không tạo bản ghi trùng.
	_, err := s.DB.Collection(collSubscriptions).UpdateOne(ctx,
		bson.M{"endpoint": sub.Endpoint},
		bson.M{"$set": sub},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) ListSubscriptions(ctx context.Context, emails []string) ([]models.PushSubscription, error) {
	cursor, err := s.DB.Collection(collSubscriptions).Find(ctx, bson.M{"email": bson.M{"$in": emails}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.PushSubscription{}
	}
	return subs, nil
}

func (s *Store) RemoveSubscription(ctx context.Context, endpoint string) error {
	_, err := s.DB.Collection(collSubscriptions).DeleteOne(ctx, bson.M{"endpoint": endpoint})
	return err
}
