package notify

import (
	"io"
	"testing"
	"time"

	"github.com/driveport/driveport/internal/events"
	"github.com/driveport/driveport/internal/logging"
)

func TestNoticePublished(t *testing.T) {
	bus := events.NewEventBus(8)
	defer bus.Close()
	ch := bus.Subscribe(events.EventNotice)

	n := NewNotifier(bus, logging.NewLogger(io.Discard))
	n.Error("upload failed: report.pdf")

	select {
	case e := <-ch:
		notice, ok := e.(events.NoticeEvent)
		if !ok {
			t.Fatalf("got %T, want NoticeEvent", e)
		}
		if notice.Level != "error" {
			t.Errorf("level = %q, want error", notice.Level)
		}
		if notice.Message != "upload failed: report.pdf" {
			t.Errorf("message = %q", notice.Message)
		}
	case <-time.After(time.Second):
		t.Fatal("no notice published")
	}
}

func TestDuplicateNoticeSuppressed(t *testing.T) {
	bus := events.NewEventBus(8)
	defer bus.Close()
	ch := bus.Subscribe(events.EventNotice)

	n := NewNotifier(bus, logging.NewLogger(io.Discard))
	n.Info("3 files queued")
	n.Info("3 files queued")

	<-ch
	select {
	case e := <-ch:
		t.Fatalf("duplicate notice delivered: %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNoticeRepeatsAfterWindow(t *testing.T) {
	bus := events.NewEventBus(8)
	defer bus.Close()
	ch := bus.Subscribe(events.EventNotice)

	n := NewNotifier(bus, logging.NewLogger(io.Discard))
	n.Info("done")

	base := time.Now()
	n.now = func() time.Time { return base.Add(time.Minute) }
	n.Info("done")

	for i := 0; i < 2; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("notice %d not delivered", i+1)
		}
	}
}

func TestDifferentLevelsNotDeduped(t *testing.T) {
	bus := events.NewEventBus(8)
	defer bus.Close()
	ch := bus.Subscribe(events.EventNotice)

	n := NewNotifier(bus, logging.NewLogger(io.Discard))
	n.Info("sync finished")
	n.Error("sync finished")

	for i := 0; i < 2; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("notice %d not delivered", i+1)
		}
	}
}
