// Package watch provides the runner logic for the follow mode: reprint
// the visible entries whenever the event log changes, and on a fixed
// schedule so due progress stays current between writes.
package watch

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/printers"
	"tableflip.dev/nag/pkg/store"
	"tableflip.dev/nag/pkg/timeutil"
	"tableflip.dev/nag/pkg/view"
	"tableflip.dev/nag/pkg/visual"
)

// defaultSchedule redraws once a minute.
const defaultSchedule = "* * * * *"

type Watch struct {
	Bucket      string
	Project     string
	SortMode    view.SortMode
	HorizonDays int
	Schedule    string

	Service *app.Service
}

func (w *Watch) Do(ctx context.Context) error {
	if w.Service == nil || w.Service.Persistence == nil {
		return errors.New("can not watch, no persistence")
	}

	events, err := w.Service.Watch(ctx)
	if err != nil {
		return err
	}

	redraw := make(chan struct{}, 1)
	kick := func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}

	schedule := w.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, kick); err != nil {
		return fmt.Errorf("watch: bad schedule %q: %w", schedule, err)
	}
	c.Start()
	defer c.Stop()

	if err := w.print(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == store.EventLogInvalidated {
				fmt.Println("event log changed shape, reloading")
			}
			if err := w.print(ctx); err != nil {
				return err
			}
		case <-redraw:
			if err := w.print(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Watch) print(ctx context.Context) error {
	entries, _, err := w.Service.Visible(ctx, view.Params{
		Bucket:        w.Bucket,
		ActiveProject: w.Project,
		HorizonDays:   w.HorizonDays,
		Recurring:     view.NextOnly,
	}, w.SortMode)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{
		Mapper: visual.NewMapper(w.Service.Resolver),
		Loc:    w.Service.Resolver.Location(),
	}
	title := w.Bucket
	if w.Project != "" {
		title = w.Project
	}
	if title == "" {
		title = "All"
	}
	pp.TitleWithCount(title, len(entries))
	pp.Entries(timeutil.NowMillis(), entries...)
	return nil
}
