// Package push gửi Web Push (VAPID) tới các subscription đã đăng ký.
// Lỗi gửi chỉ được log rồi bỏ qua, không bao giờ lan ngược về nghiệp vụ.
package push

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"pnt-health-station-api-server/internal/store"
)

type Sender struct {
	subs       store.SubscriptionStore
	users      store.UserStore
	publicKey  string
	privateKey string
	subject    string // mailto: của trạm y tế
}

func NewSender(subs store.SubscriptionStore, users store.UserStore, publicKey, privateKey, subject string) *Sender {
	return &Sender{
		subs:       subs,
		users:      users,
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
	}
}

// Enabled: chưa cấu hình VAPID key thì mọi lời gọi gửi là no-op.
func (s *Sender) Enabled() bool {
	return s.publicKey != "" && s.privateKey != ""
}

type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// SendToUser gửi thông báo tới mọi thiết bị của một user.
func (s *Sender) SendToUser(ctx context.Context, email, title, body, url string) {
	if !s.Enabled() {
		return
	}
	subs, err := s.subs.ListSubscriptions(ctx, []string{email})
	if err != nil {
		log.Printf("Failed to load push subscriptions for %s: %v", email, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	data, err := json.Marshal(payload{Title: title, Body: body, URL: url})
	if err != nil {
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(data, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.subject,
			VAPIDPublicKey:  s.publicKey,
			VAPIDPrivateKey: s.privateKey,
			TTL:             60,
		})
		if err != nil {
			log.Printf("Failed to send push to %s: %v", email, err)
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			// Subscription đã hết hạn, dọn khỏi store.
			if err := s.subs.RemoveSubscription(ctx, sub.Endpoint); err != nil {
				log.Printf("Failed to remove expired subscription: %v", err)
			}
		}
		resp.Body.Close()
	}
}

// SendToRole gửi thông báo tới mọi user có vai trò cho trước.
func (s *Sender) SendToRole(ctx context.Context, role, title, body, url string) {
	if !s.Enabled() {
		return
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		log.Printf("Failed to list users for push by role: %v", err)
		return
	}
	for _, u := range users {
		if u.Role == role {
			s.SendToUser(ctx, u.Email, title, body, url)
		}
	}
}
