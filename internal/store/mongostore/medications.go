package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

// stockField ánh xạ khu vực sang tên field trong document.
func stockField(area models.Area) string {
	if area == models.AreaB {
		return "stockB"
	}
	return "stockA"
}

func (s *Store) ListMedications(ctx context.Context) ([]models.Medication, error) {
	cursor, err := s.DB.Collection(collMedications).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var meds []models.Medication
	if err = cursor.All(ctx, &meds); err != nil {
		return nil, err
	}
	if meds == nil {
		meds = []models.Medication{}
	}
	return meds, nil
}

func (s *Store) GetMedication(ctx context.Context, medicationID string) (*models.Medication, error) {
	var med models.Medication
	err := s.DB.Collection(collMedications).FindOne(ctx, bson.M{"medicationID": medicationID}).Decode(&med)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &med, nil
}

func (s *Store) InsertMedication(ctx context.Context, med *models.Medication) error {
	_, err := s.DB.Collection(collMedications).InsertOne(ctx, med)
	return err
}

func (s *Store) UpdateStock(ctx context.Context, medicationID string, area models.Area, value int) error {
	result, err := s.DB.Collection(collMedications).UpdateOne(ctx,
		bson.M{"medicationID": medicationID},
		bson.M{"$set": bson.M{stockField(area): value}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
