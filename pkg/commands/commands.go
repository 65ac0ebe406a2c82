package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/commands/options"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/store"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "nag",
		Short: base.Wrap80("Recurring reminders that will not let go."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addGet(topLevel)
	addAdd(topLevel)
	addPush(topLevel)
	addComplete(topLevel)
	addDelete(topLevel)
	addSync(topLevel)
	addBuckets(topLevel)
	addReport(topLevel)
	addWatch(topLevel)
	addUI(topLevel)
	addVersion(topLevel)
}

// loadService wires the diskv-backed event log into the app service.
func loadService() (*app.Service, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	return &app.Service{
		Persistence: p,
		Resolver:    recurrence.NewResolver(nil),
		UserID:      cfg.UserID(),
	}, nil
}
