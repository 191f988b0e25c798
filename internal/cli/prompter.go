package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Confirmer asks a yes or no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Prompter writes workflow output and reads confirmations line by line.
type Prompter struct {
	writer    io.Writer
	reader    *NonBlockingReader
	assumeYes bool
}

// NewPrompter creates a prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// WithAssumeYes answers every confirmation with yes.
func (p *Prompter) WithAssumeYes(yes bool) *Prompter {
	p.assumeYes = yes
	return p
}

// Confirm prints prompt and waits for s/n. An empty answer is no.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.assumeYes {
		if _, err := fmt.Fprintln(p.writer, FormatPrompt(prompt)+"s"); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}
		return true, nil
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt+" [s/n]")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}

		switch strings.ToLower(line) {
		case "s", "si", "sí", "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		default:
			if _, err := fmt.Fprintln(p.writer, FormatWarning("Responda s o n")); err != nil {
				return false, fmt.Errorf("failed to write hint: %w", err)
			}
		}
	}
}

// ShowClassification renders the percentages of a classification.
func (p *Prompter) ShowClassification(resp model.ClassificationResponse) error {
	lines := make([]string, 0, 3)
	for _, pct := range resp.Percentages() {
		lines = append(lines, fmt.Sprintf("%s %s%%", BoldStyle.Render(pct.Label+":"), pct.Value))
	}
	_, err := fmt.Fprintln(p.writer, RenderBox(XRayIcon+" Resultados:", strings.Join(lines, "\n")))
	return err
}

// ShowNotice prints a workflow notice.
func (p *Prompter) ShowNotice(notice string, success bool) error {
	if notice == "" {
		return nil
	}
	line := FormatError(notice)
	if success {
		line = FormatSuccess(notice)
	}
	_, err := fmt.Fprintln(p.writer, line)
	return err
}

// ShowInfo prints an informational line.
func (p *Prompter) ShowInfo(message string) error {
	_, err := fmt.Fprintln(p.writer, FormatInfo(message))
	return err
}

// ShowRecords prints the historical results with their selection marks.
func (p *Prompter) ShowRecords(records []model.ClassificationRecord, selected func(model.RecordID) bool) error {
	if _, err := fmt.Fprintln(p.writer, FormatTitle("Resultados")); err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(p.writer, SubtleStyle.Render("No hay resultados para este paciente."))
		return err
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		TableCellStyle.Render("  "),
		TableCellStyle.Render(fmt.Sprintf("%-12s", "ID")),
		TableCellStyle.Render(fmt.Sprintf("%-10s", "Fecha")),
		TableCellStyle.Render(fmt.Sprintf("%12s", "Tuberculosis")),
		TableCellStyle.Render(fmt.Sprintf("%15s", "No Tuberculosis")),
		TableCellStyle.Render(fmt.Sprintf("%8s", "Normal")),
	)
	if _, err := fmt.Fprintln(p.writer, TableHeaderStyle.Render(header)); err != nil {
		return err
	}

	for _, r := range records {
		if _, err := fmt.Fprintln(p.writer, FormatRecordRow(r, selected != nil && selected(r.ID))); err != nil {
			return err
		}
	}
	return nil
}

// FormatRecordRow renders one historical result as a table row.
func FormatRecordRow(r model.ClassificationRecord, selected bool) string {
	mark := EmptyIcon
	if selected {
		mark = SuccessStyle.Render(SelectedIcon)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		TableCellStyle.Render(mark),
		TableCellStyle.Render(fmt.Sprintf("%-12s", string(r.ID))),
		TableCellStyle.Render(fmt.Sprintf("%-10s", r.ExamDate.Format())),
		TableCellStyle.Render(fmt.Sprintf("%11s%%", model.FormatPercent(r.TB))),
		TableCellStyle.Render(fmt.Sprintf("%14s%%", model.FormatPercent(r.NonTB))),
		TableCellStyle.Render(fmt.Sprintf("%7s%%", model.FormatPercent(r.Normal))),
	)
}

// ShowActivity prints local activity entries.
func (p *Prompter) ShowActivity(activities []service.Activity) error {
	if _, err := fmt.Fprintln(p.writer, FormatTitle("Actividad")); err != nil {
		return err
	}
	if len(activities) == 0 {
		_, err := fmt.Fprintln(p.writer, SubtleStyle.Render("Sin actividad registrada."))
		return err
	}

	for _, a := range activities {
		outcome := a.Outcome
		switch outcome {
		case "classified", "sent":
			outcome = SuccessStyle.Render(outcome)
		case "rejected":
			outcome = WarningStyle.Render(outcome)
		default:
			outcome = ErrorStyle.Render(outcome)
		}
		line := fmt.Sprintf("%s  %-10s  %-10s  %s  %s",
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.PatientID,
			string(a.Kind),
			outcome,
			SubtleStyle.Render(a.Detail))
		if _, err := fmt.Fprintln(p.writer, line); err != nil {
			return err
		}
	}
	return nil
}

// FormConfirmer asks with an interactive huh confirm field.
type FormConfirmer struct{}

// Confirm runs the form. Aborting counts as no.
func (FormConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(prompt).
			Affirmative("Sí").
			Negative("No").
			Value(&ok),
	))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return ok, nil
}
