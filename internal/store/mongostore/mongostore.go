// Package mongostore là hiện thực MongoDB của các interface trong store.
package mongostore

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Tên các collection, tương ứng các sheet của hệ thống cũ.
const (
	collMedications   = "medications"
	collRequests      = "requests"
	collRequestItems  = "request_items"
	collUsers         = "users"
	collLogs          = "activity_logs"
	collSubscriptions = "push_subscriptions"
)

// Store gom tất cả các store trên cùng một database.
type Store struct {
	DB *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{DB: db}
}
