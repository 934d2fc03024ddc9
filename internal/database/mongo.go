// Package database quản lý kết nối MongoDB, index và dữ liệu khởi tạo.
package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Connect mở kết nối tới MongoDB và ping để chắc chắn server sống.
func Connect(uri, dbName string) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	closeFn := func() {
		client.Disconnect(context.Background())
	}
	return client.Database(dbName), closeFn, nil
}

// EnsureIndexes tạo các unique index mà nghiệp vụ dựa vào:
// mỗi mã thuốc, mã phiếu và email chỉ có một bản ghi.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.Collection("medications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "medicationID", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	if _, err := db.Collection("requests").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "requestID", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	if _, err := db.Collection("push_subscriptions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "endpoint", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	_, err := db.Collection("request_items").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "requestID", Value: 1}},
	})
	return err
}
