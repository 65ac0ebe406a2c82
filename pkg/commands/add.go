package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/commands/options"
	"tableflip.dev/nag/pkg/runner/add"
	"tableflip.dev/nag/pkg/timeutil"
)

func addAdd(topLevel *cobra.Command) {
	no := &options.NagOptions{}

	cmd := &cobra.Command{
		Use:   "add <work name>",
		Short: "Add a nag.",
		Example: `
nag add pay-rent --text "pay the rent" --due "2026-03-01 09:00"
nag add water-plants --text "water the plants" --repeat weekly --weekday 7
nag add file-taxes --text "file the taxes" --repeat annual --month 4 --day 15
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("a work name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			n, err := no.Build(strings.Join(args, " "), timeutil.NowMillis(), svc.Resolver.Location())
			if err != nil {
				return oo.HandleError(err)
			}
			s := add.Add{
				Nag:     n,
				Service: svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddNagArgs(cmd, no)
	options.AddOutputArg(cmd, oo)

	addEdit(cmd)

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	no := &options.NagOptions{}

	cmd := &cobra.Command{
		Use:   "edit <work name>",
		Short: "Replace an existing nag, keeping its work name.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("a work name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			name := strings.Join(args, " ")
			existing, err := svc.Get(context.Background(), name)
			if err != nil {
				return oo.HandleError(err)
			}
			n, err := no.Build(name, existing.CreatedAtMillis, svc.Resolver.Location())
			if err != nil {
				return oo.HandleError(err)
			}
			s := add.Add{
				Nag:     n,
				Edit:    true,
				Service: svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddNagArgs(cmd, no)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
