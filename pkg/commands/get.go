package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/commands/options"
	"tableflip.dev/nag/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	vo := &options.ViewOptions{}
	ko := &options.KeyOptions{}
	co := &options.CalendarOptions{}

	cmd := &cobra.Command{
		Use:   "get [work name]",
		Short: "Get visible nags, or one nag by work name.",
		Example: `
nag get
nag get --bucket Work --sort due
nag get --project apollo
nag get pay-rent
nag get --calendar --year
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
			s := get.Get{
				ShowKeys:    ko.ShowKeys,
				Bucket:      vo.Bucket,
				Project:     vo.Project,
				WorkName:    strings.Join(args, " "),
				SortMode:    sortMode,
				HorizonDays: vo.HorizonDays,
				AllWindows:  vo.AllWindows,
				Calendar:    co.Calendar,
				Year:        co.Year,
				Service:     svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddViewArgs(cmd, vo)
	options.AddAllWindowsArg(cmd, vo)
	options.AddShowKeysArg(cmd, ko)
	options.AddCalendarArgs(cmd, co)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
