package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/runner/complete"
)

func addComplete(topLevel *cobra.Command) {
	var dueMillis int64

	cmd := &cobra.Command{
		Use:   "complete <work name>",
		Short: "Complete the current occurrence of a recurring nag.",
		Example: `
nag complete water-plants
nag complete water-plants --due-millis 1767258000000
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("a work name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := complete.Complete{
				WorkName:  args[0],
				DueMillis: dueMillis,
				Service:   svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().Int64Var(&dueMillis, "due-millis", 0,
		"Complete a specific occurrence by its base due instant, 0 for the current one.")

	topLevel.AddCommand(cmd)
}
