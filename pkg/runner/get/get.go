package get

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/printers"
	"tableflip.dev/nag/pkg/timeutil"
	"tableflip.dev/nag/pkg/view"
	"tableflip.dev/nag/pkg/visual"
)

type Get struct {
	ShowKeys    bool
	Bucket      string
	Project     string
	WorkName    string
	SortMode    view.SortMode
	HorizonDays int
	AllWindows  bool
	Calendar    bool
	Year        bool

	Service *app.Service
}

func (g *Get) Do(ctx context.Context) error {
	if g.Service == nil || g.Service.Persistence == nil {
		return errors.New("can not get, no persistence")
	}

	pp := printers.PrettyPrint{
		ShowKeys: g.ShowKeys,
		Mapper:   visual.NewMapper(g.Service.Resolver),
		Loc:      g.Service.Resolver.Location(),
	}

	if g.WorkName != "" {
		n, err := g.Service.Get(ctx, g.WorkName)
		if err != nil {
			return err
		}
		now := timeutil.NowMillis()
		pp.Title(n.WorkName)
		if w, ok := g.Service.Resolver.Window(n, now); ok {
			pp.Detail(n, &w, now)
		} else {
			pp.Detail(n, nil, now)
		}
		return nil
	}

	if g.Calendar {
		state, err := g.Service.Refresh(ctx)
		if err != nil {
			return err
		}
		all := make([]*nag.Nag, 0, len(state.Nags))
		for _, n := range state.Nags {
			all = append(all, n)
		}
		now := time.Now().In(g.Service.Resolver.Location())
		if g.Year {
			pp.CalendarYear(g.Service.Resolver, now.Year(), all...)
		} else {
			pp.Calendar(g.Service.Resolver, now, all...)
		}
		return nil
	}

	recurring := view.NextOnly
	if g.AllWindows {
		recurring = view.AllInWindow
	}
	entries, _, err := g.Service.Visible(ctx, view.Params{
		Bucket:        g.Bucket,
		ActiveProject: g.Project,
		HorizonDays:   g.HorizonDays,
		Recurring:     recurring,
	}, g.SortMode)
	if err != nil {
		return err
	}

	pp.TitleWithCount(titleFor(g.Bucket, g.Project), len(entries))
	pp.Entries(timeutil.NowMillis(), entries...)
	return nil
}

func titleFor(bucket, project string) string {
	if project != "" {
		return project
	}
	if bucket == "" {
		return "All"
	}
	return bucket
}
