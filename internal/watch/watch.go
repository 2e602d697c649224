// Package watch re-runs the sync whenever the local library changes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/rjeczalik/notify"

	"playlist-sync/internal/events"
	"playlist-sync/internal/util"
)

// quietPeriod is how long the library must stay untouched before a
// pending re-sync fires; rips and tag edits arrive in bursts.
const quietPeriod = 2 * time.Second

// Watch observes the given roots recursively and calls run after each
// debounced burst of filesystem events. It returns when ctx is done or
// a watch cannot be established. Failures of run itself are reported
// and waited out; the next change triggers another attempt.
func Watch(ctx context.Context, roots []string, run func() error) error {
	ch := make(chan notify.EventInfo, 100)
	for _, root := range roots {
		if err := notify.Watch(filepath.Join(root, "..."), ch, notify.All); err != nil {
			notify.Stop(ch)
			return err
		}
	}
	defer notify.Stop(ch)

	util.Default.Println("watching for changes, Ctrl-C to stop")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-ch:
			slog.Debug("fs event", "path", ev.Path(), "event", ev.Event())
			if timer == nil {
				timer = time.NewTimer(quietPeriod)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(quietPeriod)
			}
		case <-fire:
			timer = nil
			fire = nil
			events.GlobalBus.Publish(events.EventWatchTriggered)
			if err := run(); err != nil {
				util.Default.Printf("sync failed: %v\n", err)
			}
		}
	}
}
