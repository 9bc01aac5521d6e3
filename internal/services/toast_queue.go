package services

import (
	"log"
	"strconv"
	"sync"
	"time"
)

const ToastLifetime = 3 * time.Second

type ToastVariant string

const (
	ToastVariantDefault     ToastVariant = "default"
	ToastVariantDestructive ToastVariant = "destructive"
)

type Toast struct {
	ID          string       `json:"id"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Variant     ToastVariant `json:"variant"`
}

type ToastMessage struct {
	Title       string
	Description string
	Variant     ToastVariant
}

type ToastEventKind string

const (
	ToastAdded   ToastEventKind = "added"
	ToastRemoved ToastEventKind = "removed"
)

type ToastEvent struct {
	Kind  ToastEventKind `json:"kind"`
	Toast Toast          `json:"toast"`
}

// ToastScheduler runs callback after delay and returns a function that cancels it.
type ToastScheduler func(delay time.Duration, callback func()) (cancel func() bool)

func realToastScheduler(delay time.Duration, callback func()) func() bool {
	timer := time.AfterFunc(delay, callback)
	return timer.Stop
}

type toastEntry struct {
	toast  Toast
	cancel func() bool
}

// ToastQueue holds the visible toasts of one session in insertion order.
// A nil *ToastQueue accepts every call and only logs.
type ToastQueue struct {
	mu          sync.Mutex
	lifetime    time.Duration
	schedule    ToastScheduler
	nextID      uint64
	entries     []toastEntry
	subscribers map[uint64]chan ToastEvent
	nextSubID   uint64
	closed      bool
}

func NewToastQueue(lifetime time.Duration, scheduler ToastScheduler) *ToastQueue {
	if lifetime <= 0 {
		lifetime = ToastLifetime
	}
	if scheduler == nil {
		scheduler = realToastScheduler
	}
	return &ToastQueue{
		lifetime:    lifetime,
		schedule:    scheduler,
		subscribers: make(map[uint64]chan ToastEvent),
	}
}

// Toast appends message and schedules its removal after the queue lifetime.
func (queue *ToastQueue) Toast(message ToastMessage) Toast {
	variant := message.Variant
	if variant == "" {
		variant = ToastVariantDefault
	}
	if queue == nil {
		log.Printf("toast: no active queue, dropping %q %q", message.Title, message.Description)
		return Toast{Title: message.Title, Description: message.Description, Variant: variant}
	}

	queue.mu.Lock()
	if queue.closed {
		queue.mu.Unlock()
		log.Printf("toast: queue closed, dropping %q %q", message.Title, message.Description)
		return Toast{Title: message.Title, Description: message.Description, Variant: variant}
	}
	queue.nextID++
	toast := Toast{
		ID:          strconv.FormatUint(queue.nextID, 10),
		Title:       message.Title,
		Description: message.Description,
		Variant:     variant,
	}
	entry := toastEntry{toast: toast}
	queue.entries = append(queue.entries, entry)
	queue.publishLocked(ToastEvent{Kind: ToastAdded, Toast: toast})
	queue.mu.Unlock()

	id := toast.ID
	cancel := queue.schedule(queue.lifetime, func() {
		queue.remove(id)
	})

	queue.mu.Lock()
	for index := range queue.entries {
		if queue.entries[index].toast.ID == id {
			queue.entries[index].cancel = cancel
			break
		}
	}
	queue.mu.Unlock()
	return toast
}

// Dismiss removes the toast immediately and reports whether it was still visible.
func (queue *ToastQueue) Dismiss(id string) bool {
	if queue == nil {
		log.Printf("toast: no active queue, ignoring dismiss of %q", id)
		return false
	}
	return queue.remove(id)
}

func (queue *ToastQueue) List() []Toast {
	if queue == nil {
		return []Toast{}
	}
	queue.mu.Lock()
	defer queue.mu.Unlock()

	toasts := make([]Toast, 0, len(queue.entries))
	for _, entry := range queue.entries {
		toasts = append(toasts, entry.toast)
	}
	return toasts
}

// Subscribe returns a channel receiving every subsequent event and a function that detaches it.
// Events are dropped for subscribers whose buffer is full.
func (queue *ToastQueue) Subscribe(buffer int) (<-chan ToastEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	events := make(chan ToastEvent, buffer)
	if queue == nil {
		close(events)
		return events, func() {}
	}

	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.closed {
		close(events)
		return events, func() {}
	}
	queue.nextSubID++
	subscriberID := queue.nextSubID
	queue.subscribers[subscriberID] = events

	var once sync.Once
	return events, func() {
		once.Do(func() {
			queue.mu.Lock()
			defer queue.mu.Unlock()
			if channel, ok := queue.subscribers[subscriberID]; ok {
				delete(queue.subscribers, subscriberID)
				close(channel)
			}
		})
	}
}

// Close cancels pending timers and detaches all subscribers.
func (queue *ToastQueue) Close() {
	if queue == nil {
		return
	}
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.closed {
		return
	}
	queue.closed = true
	for _, entry := range queue.entries {
		if entry.cancel != nil {
			entry.cancel()
		}
	}
	queue.entries = nil
	for subscriberID, channel := range queue.subscribers {
		delete(queue.subscribers, subscriberID)
		close(channel)
	}
}

func (queue *ToastQueue) remove(id string) bool {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	for index, entry := range queue.entries {
		if entry.toast.ID != id {
			continue
		}
		queue.entries = append(queue.entries[:index], queue.entries[index+1:]...)
		if entry.cancel != nil {
			entry.cancel()
		}
		queue.publishLocked(ToastEvent{Kind: ToastRemoved, Toast: entry.toast})
		return true
	}
	return false
}

func (queue *ToastQueue) publishLocked(event ToastEvent) {
	for _, channel := range queue.subscribers {
		select {
		case channel <- event:
		default:
		}
	}
}
