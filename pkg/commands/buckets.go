package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/runner/buckets"
)

func addBuckets(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "List the bucket labels.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := buckets.Buckets{
				Service: svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
