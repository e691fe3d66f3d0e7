// Package progress renders upload activity as a terminal progress bar driven
// by the event bus.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/events"
)

// Renderer aggregates every active upload into one byte-weighted bar.
// Finished items print a line above the bar. Output goes to stderr by
// convention so stdout stays clean for command results.
type Renderer struct {
	bus *events.EventBus
	out io.Writer

	mu          sync.Mutex
	bar         *progressbar.ProgressBar
	totalBytes  int64
	sizes       map[string]int64 // item ID -> file size
	contributed map[string]int64 // item ID -> bytes already added to the bar

	done chan struct{}
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(bus *events.EventBus, out io.Writer) *Renderer {
	return &Renderer{
		bus:         bus,
		out:         out,
		sizes:       make(map[string]int64),
		contributed: make(map[string]int64),
		done:        make(chan struct{}),
	}
}

// Run consumes upload events until the bus closes or Stop is called.
// Blocks; run it on its own goroutine.
func (r *Renderer) Run() {
	ch := r.bus.SubscribeAll()
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				r.finishBar()
				return
			}
			r.handle(event)
		case <-r.done:
			r.finishBar()
			return
		}
	}
}

// Stop ends Run.
func (r *Renderer) Stop() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

func (r *Renderer) handle(event events.Event) {
	upload, ok := event.(events.UploadEvent)
	if !ok {
		if notice, ok := event.(events.NoticeEvent); ok {
			r.mu.Lock()
			r.printAbove("%s\n", notice.Message)
			r.mu.Unlock()
		}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Type() {
	case events.EventUploadStarted:
		r.sizes[upload.ItemID] = upload.Size
		r.contributed[upload.ItemID] = 0
		r.totalBytes += upload.Size
		r.ensureBar()
		r.bar.ChangeMax64(r.totalBytes)

	case events.EventUploadProgress:
		r.advance(upload.ItemID, upload.Progress)

	case events.EventUploadCompleted:
		r.advance(upload.ItemID, 100)
		r.printAbove("  done  %s\n", upload.Name)

	case events.EventUploadFailed:
		r.retire(upload.ItemID)
		r.printAbove("  error %s: %s\n", upload.Name, upload.Error)

	case events.EventUploadCanceled:
		r.retire(upload.ItemID)
		r.printAbove("  canceled %s\n", upload.Name)

	case events.EventUploadRemoved:
		r.retire(upload.ItemID)
	}
}

// advance moves the bar by the item's progress delta. Requires r.mu.
func (r *Renderer) advance(itemID string, pct int) {
	size, ok := r.sizes[itemID]
	if !ok || r.bar == nil {
		return
	}
	target := size * int64(pct) / 100
	if delta := target - r.contributed[itemID]; delta > 0 {
		r.contributed[itemID] = target
		_ = r.bar.Add64(delta)
	}
}

// retire drops an item's untransferred bytes from the bar's total so a
// canceled upload does not leave the bar stuck short of full. Requires r.mu.
func (r *Renderer) retire(itemID string) {
	size, ok := r.sizes[itemID]
	if !ok {
		return
	}
	remaining := size - r.contributed[itemID]
	if remaining > 0 {
		r.totalBytes -= remaining
		if r.bar != nil {
			r.bar.ChangeMax64(r.totalBytes)
		}
	}
	delete(r.sizes, itemID)
	delete(r.contributed, itemID)
}

func (r *Renderer) ensureBar() {
	if r.bar != nil {
		return
	}
	r.bar = progressbar.NewOptions64(r.totalBytes,
		progressbar.OptionSetDescription("uploading"),
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(constants.ProgressThrottle),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(r.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (r *Renderer) printAbove(format string, args ...interface{}) {
	r.clearBar()
	fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) clearBar() {
	if r.bar != nil {
		_ = r.bar.Clear()
	}
}

func (r *Renderer) finishBar() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
