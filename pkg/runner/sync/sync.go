package sync

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/nag/pkg/app"
)

type Sync struct {
	Migrate bool

	Service *app.Service
}

func (s *Sync) Do(ctx context.Context) error {
	if s.Service == nil || s.Service.Persistence == nil {
		return errors.New("can not sync, no persistence")
	}

	if s.Migrate {
		copied, err := s.Service.MigrateLegacy(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("migrated %d legacy rows\n", copied)
	}

	count, err := s.Service.SyncAll(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("synced %d nags\n", count)
	return nil
}
