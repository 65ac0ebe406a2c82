package push

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/timeutil"
)

type Push struct {
	WorkName string
	By       string

	Service *app.Service
}

func (p *Push) Do(ctx context.Context) error {
	if p.Service == nil || p.Service.Persistence == nil {
		return errors.New("can not push, no persistence")
	}

	delta, err := timeutil.ParsePush(p.By)
	if err != nil {
		return err
	}

	n, err := p.Service.Push(ctx, p.WorkName, delta)
	if err != nil {
		return err
	}

	fmt.Printf("pushed %q by %s (%d pushes, +%s total)\n",
		n.WorkName, timeutil.FormatCompact(delta), n.PushCount, timeutil.FormatCompact(n.PushedTotalMillis))
	return nil
}
