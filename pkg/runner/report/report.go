package report

import (
	"context"
	"errors"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/printers"
)

type Report struct {
	Service *app.Service
}

func (r *Report) Do(ctx context.Context) error {
	if r.Service == nil || r.Service.Persistence == nil {
		return errors.New("can not report, no persistence")
	}

	rep, err := r.Service.Report(ctx)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.Report(rep)
	return nil
}
