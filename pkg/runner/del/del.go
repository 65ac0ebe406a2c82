package del

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/nag/pkg/app"
)

type Delete struct {
	WorkName string

	Service *app.Service
}

func (d *Delete) Do(ctx context.Context) error {
	if d.Service == nil || d.Service.Persistence == nil {
		return errors.New("can not delete, no persistence")
	}

	if err := d.Service.Delete(ctx, d.WorkName); err != nil {
		return err
	}
	fmt.Printf("deleted %q\n", d.WorkName)
	return nil
}
