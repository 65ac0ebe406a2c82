package add

import (
	"context"
	"errors"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/printers"
	"tableflip.dev/nag/pkg/timeutil"
	"tableflip.dev/nag/pkg/visual"
)

type Add struct {
	Nag  *nag.Nag
	Edit bool

	Service *app.Service
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil || a.Service.Persistence == nil {
		return errors.New("can not add, no persistence")
	}
	if a.Nag == nil {
		return errors.New("can not add, no nag given")
	}

	var err error
	if a.Edit {
		err = a.Service.Update(ctx, a.Nag)
	} else {
		err = a.Service.Create(ctx, a.Nag)
	}
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{
		Mapper: visual.NewMapper(a.Service.Resolver),
		Loc:    a.Service.Resolver.Location(),
	}
	now := timeutil.NowMillis()
	pp.Title(a.Nag.WorkName)
	if w, ok := a.Service.Resolver.Window(a.Nag, now); ok {
		pp.Detail(a.Nag, &w, now)
	} else {
		pp.Detail(a.Nag, nil, now)
	}
	return nil
}
