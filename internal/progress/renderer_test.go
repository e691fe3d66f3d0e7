package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/events"
)

func drainRenderer(t *testing.T, r *Renderer) func() {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Run()
	}()
	// Give Run a moment to subscribe before callers publish; on a
	// single-CPU machine the goroutine may not be scheduled yet and the
	// bus drops events that arrive before any subscriber exists.
	time.Sleep(20 * time.Millisecond)
	return func() {
		r.Stop()
		wg.Wait()
	}
}

func publishAndSettle(bus *events.EventBus, evts ...events.Event) {
	for _, e := range evts {
		bus.Publish(e)
	}
	time.Sleep(50 * time.Millisecond)
}

func TestRendererTracksContributedBytes(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	var buf bytes.Buffer
	r := NewRenderer(bus, &buf)
	stop := drainRenderer(t, r)

	publishAndSettle(bus,
		events.NewUploadEvent(events.EventUploadStarted, "i1", "a.bin", 1000, 0, ""),
		events.NewUploadEvent(events.EventUploadProgress, "i1", "a.bin", 1000, 50, ""),
	)

	r.mu.Lock()
	if r.contributed["i1"] != 500 {
		t.Errorf("contributed = %d, want 500", r.contributed["i1"])
	}
	if r.totalBytes != 1000 {
		t.Errorf("total = %d, want 1000", r.totalBytes)
	}
	r.mu.Unlock()

	stop()
}

func TestRendererRetiresCanceledBytes(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	var buf bytes.Buffer
	r := NewRenderer(bus, &buf)
	stop := drainRenderer(t, r)

	publishAndSettle(bus,
		events.NewUploadEvent(events.EventUploadStarted, "i1", "a.bin", 1000, 0, ""),
		events.NewUploadEvent(events.EventUploadStarted, "i2", "b.bin", 2000, 0, ""),
		events.NewUploadEvent(events.EventUploadProgress, "i1", "a.bin", 1000, 40, ""),
		events.NewUploadEvent(events.EventUploadCanceled, "i1", "a.bin", 1000, 40, ""),
	)

	r.mu.Lock()
	// 400 transferred bytes stay counted; the 600 never sent drop out.
	if r.totalBytes != 2400 {
		t.Errorf("total = %d, want 2400", r.totalBytes)
	}
	if _, tracked := r.sizes["i1"]; tracked {
		t.Error("canceled item still tracked")
	}
	r.mu.Unlock()

	stop()

	if !strings.Contains(buf.String(), "canceled a.bin") {
		t.Errorf("missing cancel line in output:\n%s", buf.String())
	}
}

func TestRendererPrintsCompletionAndErrors(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	var buf bytes.Buffer
	r := NewRenderer(bus, &buf)
	stop := drainRenderer(t, r)

	publishAndSettle(bus,
		events.NewUploadEvent(events.EventUploadStarted, "i1", "ok.txt", 10, 0, ""),
		events.NewUploadEvent(events.EventUploadCompleted, "i1", "ok.txt", 10, 100, ""),
		events.NewUploadEvent(events.EventUploadStarted, "i2", "bad.txt", 10, 0, ""),
		events.NewUploadEvent(events.EventUploadFailed, "i2", "bad.txt", 10, 0, "connection reset"),
	)
	stop()

	out := buf.String()
	if !strings.Contains(out, "done  ok.txt") {
		t.Errorf("missing done line:\n%s", out)
	}
	if !strings.Contains(out, "error bad.txt: connection reset") {
		t.Errorf("missing error line:\n%s", out)
	}
}

func TestRedrawThrottleIsMilliseconds(t *testing.T) {
	if constants.ProgressThrottle < 10*time.Millisecond {
		t.Errorf("Expected a redraw throttle of at least 10ms, got %v", constants.ProgressThrottle)
	}
}
