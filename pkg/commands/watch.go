package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/commands/options"
	"tableflip.dev/nag/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	vo := &options.ViewOptions{}
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint visible nags whenever the event log changes.",
		Example: `
nag watch
nag watch --bucket Work --schedule "*/5 * * * *"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sortMode, err := vo.SortMode()
			if err != nil {
				return oo.HandleError(err)
			}
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := watch.Watch{
				Bucket:      vo.Bucket,
				Project:     vo.Project,
				SortMode:    sortMode,
				HorizonDays: vo.HorizonDays,
				Schedule:    schedule,
				Service:     svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddViewArgs(cmd, vo)
	cmd.Flags().StringVar(&schedule, "schedule", "",
		"Cron schedule for periodic redraws, default once a minute.")

	topLevel.AddCommand(cmd)
}
