package core

import "sync"

// KeyedMutex cấp một mutex riêng cho từng key (requestID, medicationID).
// Backend không có transaction nên mọi chuỗi đọc-sửa-ghi trên cùng một
// phiếu hoặc cùng một thuốc phải được tuần tự hóa trong tiến trình.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock khóa theo key và trả về hàm mở khóa.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
