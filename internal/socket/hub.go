// server/internal/socket/hub.go
package socket

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub quản lý tất cả các client WebSocket.
type Hub struct {
	// clients lưu các kết nối theo email của user. Một user có thể mở
	// nhiều tab/thiết bị nên value là một danh sách kết nối.
	clients map[string][]*websocket.Conn
	// mu đảm bảo an toàn khi truy cập map clients từ nhiều goroutine.
	mu sync.RWMutex
}

// NewHub tạo một Hub mới.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string][]*websocket.Conn),
	}
}

// Register thêm một kết nối mới vào Hub.
func (h *Hub) Register(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[email] = append(h.clients[email], conn)
	log.Printf("WebSocket client registered: %s", email)
}

// Unregister gỡ một kết nối khỏi Hub.
func (h *Hub) Unregister(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.clients[email]
	for i, c := range conns {
		if c == conn {
			h.clients[email] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.clients[email]) == 0 {
		delete(h.clients, email)
	}
	log.Printf("WebSocket client unregistered: %s", email)
}

// Send gửi một tin nhắn đến mọi kết nối của một user.
func (h *Hub) Send(email string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.clients[email]
	if !ok {
		// User đang offline, không coi đây là lỗi nghiêm trọng.
		return nil
	}

	var lastErr error
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
