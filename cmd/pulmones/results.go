package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/cli"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/config"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/report"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/selection"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/tui"
	"github.com/spf13/cobra"
)

type resultsOptions struct {
	patientFlags
	selected []string
	yes      bool
	noTUI    bool
}

func resultsCmd() *cobra.Command {
	opts := &resultsOptions{}

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List past results and email a report",
		Long: `List the patient's past classification results, select some of them,
and email a report compiled from the selection.

With --no-tui the results are printed and the records named by --select are
sent, in the order given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResults(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	opts.register(cmd)
	cmd.Flags().StringSliceVar(&opts.selected, "select", nil, "record ids to include in the report (line mode)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "send without asking for confirmation")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "run in line mode instead of the interactive screen")

	return cmd
}

func runResults(ctx context.Context, opts *resultsOptions, in io.Reader, out io.Writer) error {
	patient, err := opts.patient()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	activity, closeActivity := openActivityLog(ctx, cfg)
	defer closeActivity()

	client, err := buildClient(cfg, nil)
	if err != nil {
		return err
	}

	if opts.noTUI {
		ids := make([]model.RecordID, 0, len(opts.selected))
		for _, id := range opts.selected {
			ids = append(ids, model.RecordID(id))
		}
		return resultsLineMode(ctx, cfg, patient, client, client, activity, ids, opts.yes, in, out)
	}

	restore, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer restore()

	adapter := buildAdapter(cfg, nil, io.Discard, io.Discard)
	return tui.Run(ctx, tui.NavigateMsg{
		Screen:  tui.ScreenResults,
		Patient: patient,
	}, tuiOptions(cfg, client, adapter, activity)...)
}

func resultsLineMode(
	ctx context.Context,
	cfg *config.Config,
	patient model.Patient,
	results service.ResultsService,
	reports service.ReportService,
	activity service.ActivityLog,
	ids []model.RecordID,
	yes bool,
	in io.Reader,
	out io.Writer,
) error {
	prompter := cli.NewPrompter(in, out)

	interrupts := cli.NewInterruptHandler(out, "Envío interrumpido")
	ctx, stop := interrupts.HandleInterrupts(ctx)
	defer stop()

	sess := session.New(patient)
	defer sess.End()

	store := selection.New()
	loader := report.NewLoader(sess, store, results)

	reportOpts := []report.Option{report.WithMaxResults(cfg.Report.MaxResults)}
	if activity != nil {
		reportOpts = append(reportOpts, report.WithActivityLog(activity))
	}
	ctrl := report.NewController(sess, store, reports, reportOpts...)

	records, err := loader.Load(ctx)
	if err != nil {
		_ = prompter.ShowNotice(loader.Notice(), false)
		return err
	}

	for _, id := range ids {
		if _, err := store.Toggle(id); err != nil {
			return common.NewUserError(fmt.Sprintf("No existe el resultado %s.", id), err)
		}
	}
	if err := prompter.ShowRecords(records, store.IsSelected); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	prompt, err := ctrl.RequestConfirmation()
	if err != nil {
		_ = prompter.ShowNotice(ctrl.Notice(), false)
		return err
	}

	ok, err := confirmer(in, out, yes).Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		ctrl.CancelConfirmation()
		return prompter.ShowInfo("Envío cancelado.")
	}

	res, applied := ctrl.Send(ctx)
	if !applied {
		return errors.New("report was not sent")
	}
	if err := prompter.ShowNotice(ctrl.Notice(), res.Err == nil); err != nil {
		return err
	}
	return res.Err
}
