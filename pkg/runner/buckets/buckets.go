package buckets

import (
	"context"
	"errors"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/printers"
)

type Buckets struct {
	Service *app.Service
}

func (b *Buckets) Do(ctx context.Context) error {
	if b.Service == nil || b.Service.Persistence == nil {
		return errors.New("can not list buckets, no persistence")
	}

	names, err := b.Service.Buckets(ctx)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.Buckets(names)
	return nil
}
