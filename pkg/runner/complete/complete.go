// Package complete provides the runner logic for completing an
// occurrence of a recurring nag.
package complete

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/timeutil"
)

type Complete struct {
	WorkName  string
	DueMillis int64

	Service *app.Service
}

func (c *Complete) Do(ctx context.Context) error {
	if c.Service == nil || c.Service.Persistence == nil {
		return errors.New("can not complete, no persistence")
	}

	n, err := c.Service.CompleteOccurrence(ctx, c.WorkName, c.DueMillis)
	if err != nil {
		return err
	}

	fmt.Printf("completed occurrence of %q (%d done)\n", n.WorkName, len(n.SkippedDueMillis))
	if next, ok := c.Service.Resolver.NextDue(n, timeutil.NowMillis()); ok {
		fmt.Printf("next due %s\n", timeutil.FormatLocal(next, c.Service.Resolver.Location()))
	}
	return nil
}
