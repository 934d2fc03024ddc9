package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

func (s *Store) InsertRequest(ctx context.Context, req *models.Request) error {
	result, err := s.DB.Collection(collRequests).InsertOne(ctx, req)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (*models.Request, error) {
	var req models.Request
	err := s.DB.Collection(collRequests).FindOne(ctx, bson.M{"requestID": requestID}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *Store) ListRequests(ctx context.Context) ([]models.Request, error) {
	cursor, err := s.DB.Collection(collRequests).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.Request{}
	}
	return requests, nil
}

func (s *Store) SetRequestStatus(ctx context.Context, requestID, status, staffNote string, processedAt *time.Time, distributionArea string) error {
	update := bson.M{
		"status":           status,
		"staffNote":        staffNote,
		"processedAt":      processedAt,
		"distributionArea": distributionArea,
	}
	result, err := s.DB.Collection(collRequests).UpdateOne(ctx,
		bson.M{"requestID": requestID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkExpired(ctx context.Context, requestID string) error {
	// Chỉ chuyển từ PENDING; phiếu đã EXPIRED hoặc đã xử lý thì giữ nguyên.
	_, err := s.DB.Collection(collRequests).UpdateOne(ctx,
		bson.M{"requestID": requestID, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": models.StatusExpired}},
	)
	return err
}

func (s *Store) AppendRequestItem(ctx context.Context, item *models.RequestItem) error {
	result, err := s.DB.Collection(collRequestItems).InsertOne(ctx, item)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}
	return nil
}

func (s *Store) ListRequestItems(ctx context.Context) ([]models.RequestItem, error) {
	cursor, err := s.DB.Collection(collRequestItems).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.RequestItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.RequestItem{}
	}
	return items, nil
}

func (s *Store) ListItemsByRequest(ctx context.Context, requestID string) ([]models.RequestItem, error) {
	cursor, err := s.DB.Collection(collRequestItems).Find(ctx, bson.M{"requestID": requestID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.RequestItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.RequestItem{}
	}
	return items, nil
}
