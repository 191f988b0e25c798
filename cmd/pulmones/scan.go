package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/acquisition"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/cli"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/config"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/scan"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/session"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/tui"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	image  string
	source string
	patientFlags
	yes   bool
	noTUI bool
}

func scanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Submit a radiograph for classification",
		Long: `Open the scanner screen for a patient, choose a radiograph from the
gallery or the camera, and submit it for classification.

With --no-tui the radiograph comes from --image, or from a file picker or
the camera when --image is omitted, and the result is printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.image, "image", "", "radiograph file to start with")
	cmd.Flags().StringVar(&opts.source, "source", string(model.SourceGallery), "where the image comes from (gallery, camera)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "submit without asking for confirmation")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "run in line mode instead of the interactive screen")

	return cmd
}

func runScan(ctx context.Context, opts *scanOptions, in io.Reader, out, errOut io.Writer) error {
	patient, err := opts.patient()
	if err != nil {
		return err
	}
	source := model.SourceKind(opts.source)
	if !source.Valid() {
		return fmt.Errorf("invalid --source %q: use gallery or camera", opts.source)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	activity, closeActivity := openActivityLog(ctx, cfg)
	defer closeActivity()

	var initial model.ImageRef
	if opts.image != "" {
		initial, err = acquisition.FromPath(opts.image, source)
		if err != nil {
			return common.NewUserError(common.NoticeFor(err), err)
		}
	}

	if opts.noTUI {
		client, err := buildClient(cfg, cli.NewUploadProgress(errOut))
		if err != nil {
			return err
		}
		return scanLineMode(ctx, cfg, patient, initial, source, client, activity, opts.yes, in, out, errOut)
	}

	client, err := buildClient(cfg, nil)
	if err != nil {
		return err
	}
	adapter := buildAdapter(cfg, nil, io.Discard, io.Discard)

	restore, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer restore()

	return tui.Run(ctx, tui.NavigateMsg{
		Screen:  tui.ScreenScanner,
		Patient: patient,
		Image:   initial,
	}, tuiOptions(cfg, client, adapter, activity)...)
}

func scanLineMode(
	ctx context.Context,
	cfg *config.Config,
	patient model.Patient,
	image model.ImageRef,
	source model.SourceKind,
	classifier service.ClassificationService,
	activity service.ActivityLog,
	yes bool,
	in io.Reader,
	out, errOut io.Writer,
) error {
	prompter := cli.NewPrompter(in, out)

	interrupts := cli.NewInterruptHandler(errOut, "Envío interrumpido")
	ctx, stop := interrupts.HandleInterrupts(ctx)
	defer stop()

	if image.IsZero() {
		var err error
		adapter := buildAdapter(cfg, acquisition.FormPicker{}, out, errOut)
		image, err = acquire(ctx, adapter, patient, source)
		if errors.Is(err, common.ErrCancelled) {
			return prompter.ShowInfo("No se seleccionó ninguna radiografía.")
		}
		if err != nil {
			_ = prompter.ShowNotice(common.NoticeFor(err), false)
			return err
		}
	}

	var scanOpts []scan.Option
	if activity != nil {
		scanOpts = append(scanOpts, scan.WithActivityLog(activity))
	}
	sess := session.New(patient)
	defer sess.End()

	ctrl := scan.NewController(sess, classifier, scanOpts...)
	if err := ctrl.SetImage(image); err != nil {
		return err
	}
	if err := prompter.ShowInfo(fmt.Sprintf("Radiografía: %s", image.Name())); err != nil {
		return err
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

	res, applied := ctrl.Submit(ctx)
	if !applied {
		return errors.New("scan was not submitted")
	}

	switch ctrl.State() {
	case scan.StateClassified:
		resp, _ := ctrl.Response()
		return prompter.ShowClassification(resp)
	default:
		if err := prompter.ShowNotice(ctrl.Notice(), false); err != nil {
			return err
		}
		return res.Err
	}
}

func acquire(ctx context.Context, src service.ImageSource, patient model.Patient, source model.SourceKind) (model.ImageRef, error) {
	if source == model.SourceCamera {
		return src.AcquireFromCamera(ctx, patient)
	}
	return src.AcquireFromGallery(ctx)
}
