// Package notify surfaces transient user-facing notices. Repeated identical
// notices inside a short window collapse into one.
package notify

import (
	"sync"
	"time"

	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/events"
	"github.com/driveport/driveport/internal/logging"
)

// Level classifies a notice for display.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier publishes notices on the event bus and mirrors them to the log.
type Notifier struct {
	bus    *events.EventBus
	logger *logging.Logger

	mu   sync.Mutex
	seen map[string]time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewNotifier creates a notifier bound to the given bus.
func NewNotifier(bus *events.EventBus, logger *logging.Logger) *Notifier {
	return &Notifier{
		bus:    bus,
		logger: logger,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Info posts an informational notice.
func (n *Notifier) Info(message string) {
	n.post(LevelInfo, message)
}

// Success posts a success notice.
func (n *Notifier) Success(message string) {
	n.post(LevelSuccess, message)
}

// Error posts an error notice.
func (n *Notifier) Error(message string) {
	n.post(LevelError, message)
}

func (n *Notifier) post(level Level, message string) {
	if n.suppressed(string(level) + "\x00" + message) {
		return
	}

	switch level {
	case LevelError:
		n.logger.Error().Msg(message)
	default:
		n.logger.Info().Msg(message)
	}

	n.bus.Publish(events.NewNoticeEvent(string(level), message))
}

// suppressed reports whether an identical notice fired inside the dedupe
// window, and records this one if not.
func (n *Notifier) suppressed(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if last, ok := n.seen[key]; ok && now.Sub(last) < constants.NoticeDedupeWindow {
		return true
	}

	// Drop stale entries so the map does not grow without bound.
	for k, at := range n.seen {
		if now.Sub(at) >= constants.NoticeDedupeWindow {
			delete(n.seen, k)
		}
	}

	n.seen[key] = now
	return false
}
