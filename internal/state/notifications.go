package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
)

// Notification 创建后不再修改
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
}

// Notifications 是按插入顺序排列的临时消息队列，
// 每条消息有自己独立的过期计时器
type Notifications struct {
	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
	ttl    time.Duration
}

func NewNotifications(ttl time.Duration) *Notifications {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Notifications{
		timers: make(map[string]*time.Timer),
		ttl:    ttl,
	}
}

func (n *Notifications) Push(typ NotificationType, message string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	n.items = append(n.items, Notification{
		ID:        id,
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now(),
	})
	n.timers[id] = time.AfterFunc(n.ttl, func() {
		n.Dismiss(id)
	})
	return id
}

func (n *Notifications) Success(message string) string {
	return n.Push(NotifySuccess, message)
}

func (n *Notifications) Error(message string) string {
	return n.Push(NotifyError, message)
}

func (n *Notifications) Info(message string) string {
	return n.Push(NotifyInfo, message)
}

func (n *Notifications) Warning(message string) string {
	return n.Push(NotifyWarning, message)
}

func (n *Notifications) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			break
		}
	}
}

func (n *Notifications) List() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.items...)
}
