package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize nags per bucket, with event log diagnostics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := report.Report{
				Service: svc,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
