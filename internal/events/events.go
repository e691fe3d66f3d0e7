// Package events provides an in-process event bus for upload and search
// activity, decoupling the core from whatever surface displays it.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	// Upload item lifecycle
	EventUploadStarted   EventType = "upload_started"   // Transfer began for an item
	EventUploadProgress  EventType = "upload_progress"  // Progress percentage changed
	EventUploadCompleted EventType = "upload_completed" // Blob stored and document persisted
	EventUploadFailed    EventType = "upload_failed"    // Failed with error
	EventUploadCanceled  EventType = "upload_canceled"  // Canceled by user
	EventUploadRemoved   EventType = "upload_removed"   // Item dropped from the collection

	// Search
	EventSearchCompleted EventType = "search_completed" // Debounced search produced results

	// User-facing notices
	EventNotice EventType = "notice"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// UploadEvent reports an upload item transition or progress update.
type UploadEvent struct {
	BaseEvent
	ItemID   string // Client-side item ID
	Name     string // Display name (filename)
	Size     int64  // File size in bytes
	Progress int    // 0 to 100
	Error    string // Error message if failed
}

// SearchEvent reports completion of a debounced search pass.
type SearchEvent struct {
	BaseEvent
	Query       string
	Hits        int
	Suggestions int
}

// NoticeEvent carries a transient user-facing message.
type NoticeEvent struct {
	BaseEvent
	Level   string // "info" or "error"
	Message string
}

const (
	defaultBuffer = 256
	maxBuffer     = 4096
)

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64
}

// NewEventBus creates a new event bus with the specified buffer size per
// subscriber channel.
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	if bufferSize > maxBuffer {
		bufferSize = maxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers. Publishing never blocks; events
// are dropped when a subscriber's buffer is full.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Dropped returns the number of events dropped due to full buffers.
func (eb *EventBus) Dropped() int64 {
	return eb.droppedEvents.Load()
}

// Close shuts down the event bus and closes all subscriber channels.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}

	eb.subscribers = make(map[EventType][]chan Event)
	eb.all = nil
}

// NewUploadEvent builds an upload event stamped with the current time.
func NewUploadEvent(eventType EventType, itemID, name string, size int64, progress int, errMsg string) UploadEvent {
	return UploadEvent{
		BaseEvent: BaseEvent{EventType: eventType, Time: time.Now()},
		ItemID:    itemID,
		Name:      name,
		Size:      size,
		Progress:  progress,
		Error:     errMsg,
	}
}

// NewSearchEvent builds a search completion event.
func NewSearchEvent(query string, hits, suggestions int) SearchEvent {
	return SearchEvent{
		BaseEvent:   BaseEvent{EventType: EventSearchCompleted, Time: time.Now()},
		Query:       query,
		Hits:        hits,
		Suggestions: suggestions,
	}
}

// NewNoticeEvent builds a user-facing notice event.
func NewNoticeEvent(level, message string) NoticeEvent {
	return NoticeEvent{
		BaseEvent: BaseEvent{EventType: EventNotice, Time: time.Now()},
		Level:     level,
		Message:   message,
	}
}
