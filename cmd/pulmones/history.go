package main

import (
	"fmt"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/cli"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/config"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		patientID string
		kind      string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show locally recorded submissions and reports",
		Long: `Show the submissions and reports recorded on this machine, newest first.
Classification values are never stored, only outcomes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := service.ActivityFilter{
				PatientID: patientID,
				Kind:      service.ActivityKind(kind),
				Limit:     limit,
			}
			cfg, err := config.LoadLocal()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			activities, err := store.ListActivity(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list activity: %w", err)
			}

			return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).ShowActivity(activities)
		},
	}

	cmd.Flags().StringVar(&patientID, "patient-id", "", "only show this patient")
	cmd.Flags().StringVar(&kind, "kind", "", "only show submission or report entries")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")

	return cmd
}
