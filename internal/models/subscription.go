package models

import "time"

// PushSubscription lưu một đăng ký Web Push của người dùng.
// Một người dùng có thể có nhiều subscription (nhiều thiết bị).
type PushSubscription struct {
	Email     string    `bson:"email" json:"email"`
	Endpoint  string    `bson:"endpoint" json:"endpoint"`
	P256dh    string    `bson:"p256dh" json:"p256dh"`
	Auth      string    `bson:"auth" json:"auth"`
	UserAgent string    `bson:"userAgent" json:"userAgent"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
