package detector

import (
	"context"
	"errors"
	"time"

	"github.com/NotToDisturb/VersionUtils/internal/output"
	"github.com/NotToDisturb/VersionUtils/internal/source"
)

// LatestProvider resolves the currently authoritative manifest.
type LatestProvider interface {
	Latest(ctx context.Context) (source.Latest, error)
}

// LatestProviderFunc adapts a function to LatestProvider.
type LatestProviderFunc func(ctx context.Context) (source.Latest, error)

// Latest calls f.
func (f LatestProviderFunc) Latest(ctx context.Context) (source.Latest, error) {
	return f(ctx)
}

// ErrStopped is returned by Run when ctx ends before a new build is found.
var ErrStopped = errors.New("detector stopped")

// Detector polls a LatestProvider and reports manifest transitions.
type Detector struct {
	Provider  LatestProvider
	Interval  time.Duration
	Scheduler Scheduler

	// Watch keeps polling after a new build, reporting every later one.
	Watch bool

	// OnChange is called for every new build.
	OnChange func(Event)

	state State
}

// State returns the current poll state.
func (d *Detector) State() State {
	return d.state
}

// Run polls until a new build is found and returns its event. With Watch
// set it polls until ctx is done and returns the last event with
// ErrStopped. A failed tick is logged and polling continues.
func (d *Detector) Run(ctx context.Context) (Event, error) {
	sched := d.Scheduler
	if sched == nil {
		sched = IntervalScheduler{}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		last  Event
		found bool
	)
	sched.Run(runCtx, d.Interval, func(tickCtx context.Context) {
		ev, changed, err := d.poll(tickCtx)
		if err != nil {
			if tickCtx.Err() == nil {
				output.Error("manifest check failed", "err", err)
			}
			return
		}
		if !changed {
			return
		}
		last, found = ev, true
		if d.OnChange != nil {
			d.OnChange(ev)
		}
		if d.Watch {
			d.state = d.state.Acknowledge()
			return
		}
		cancel()
	})

	if found && !d.Watch {
		return last, nil
	}
	return last, ErrStopped
}

// poll runs one tick against the provider.
func (d *Detector) poll(ctx context.Context) (Event, bool, error) {
	latest, err := d.Provider.Latest(ctx)
	if err != nil {
		return Event{}, false, err
	}

	next, outcome := Tick(d.state, latest.ManifestID)
	d.state = next

	switch outcome {
	case Initialized:
		output.Info("manifest initialized", "manifest", output.StyleNoun.Render(latest.ManifestID))
	case NewBuild:
		output.Info("NEW MANIFEST FOUND", "manifest", output.StyleNoun.Render(latest.ManifestID), "previous", next.Previous)
		return Event{ManifestID: next.Current, PreviousID: next.Previous, Version: latest.Version}, true, nil
	default:
		output.Info("no new manifest")
	}
	return Event{}, false, nil
}
