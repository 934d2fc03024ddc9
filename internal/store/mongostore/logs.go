package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"pnt-health-station-api-server/internal/models"
)

func (s *Store) AppendLog(ctx context.Context, entry *models.ActivityLogEntry) error {
	_, err := s.DB.Collection(collLogs).InsertOne(ctx, entry)
	return err
}

func (s *Store) ListLogs(ctx context.Context) ([]models.ActivityLogEntry, error) {
	cursor, err := s.DB.Collection(collLogs).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.ActivityLogEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ActivityLogEntry{}
	}
	return entries, nil
}
