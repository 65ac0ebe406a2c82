package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/runner/sync"
)

func addSync(topLevel *cobra.Command) {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Re-append every live nag so other sources converge.",
		Example: `
nag sync
nag sync --migrate
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := sync.Sync{
				Migrate: migrate,
				Service: svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false,
		"Copy rows from the legacy source into the primary one first.")

	topLevel.AddCommand(cmd)
}
