package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/runner/push"
)

func addPush(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "push <work name> <duration>",
		Short: "Push a nag's due instant later.",
		Example: `
nag push pay-rent 2d
nag push water-plants 12h
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("a work name and a duration are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := push.Push{
				WorkName: args[0],
				By:       args[1],
				Service:  svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
